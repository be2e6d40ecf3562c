package port

import (
	"context"

	"txpreview/internal/domain/entity"
)

// PreviewService classifies a simulated transaction into a structured,
// human-reviewable preview.
type PreviewService interface {
	// Analyze inspects the execution summary and returns the preview for
	// its first conforming classification, or a non-conforming preview
	// when none applies. The wallet context supplies the owned accounts
	// and the default deposit guarantee explicitly; no ambient profile
	// state is consulted.
	Analyze(ctx context.Context, summary entity.ExecutionSummary, wallet entity.WalletContext) (*entity.Preview, error)
}
