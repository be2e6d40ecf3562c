package service

import (
	"context"

	"github.com/shopspring/decimal"

	"txpreview/internal/app/port"
	"txpreview/internal/domain/entity"
)

// PreviewServiceImpl implements port.PreviewService.
type PreviewServiceImpl struct {
	assets      port.AssetResolver
	dapps       port.DAppDefinitionResolver
	newEntities port.NewEntityCache
	logger      port.Logger
	xrdAddress  entity.ResourceAddress
}

// NewPreviewService creates a new instance of PreviewServiceImpl. The XRD
// address is network-dependent and comes from configuration.
func NewPreviewService(
	ar port.AssetResolver,
	dr port.DAppDefinitionResolver,
	cache port.NewEntityCache,
	l port.Logger,
	xrdAddress entity.ResourceAddress,
) port.PreviewService {
	return &PreviewServiceImpl{
		assets:      ar,
		dapps:       dr,
		newEntities: cache,
		logger:      l,
		xrdAddress:  xrdAddress,
	}
}

// Analyze classifies the execution summary into a preview. The first
// conforming classification wins; a summary with none is answered with a
// non-conforming preview without touching the resolver.
func (s *PreviewServiceImpl) Analyze(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
) (*entity.Preview, error) {
	classification, ok := firstConforming(summary.DetailedClassifications)
	if !ok {
		s.logger.Debug("No conforming classification, returning non-conforming preview",
			"candidates", len(summary.DetailedClassifications))
		return entity.NonConformingPreview(), nil
	}

	preview, err := s.process(ctx, summary, wallet, classification)
	if err != nil {
		s.logger.Error("Preview analysis failed", "class", string(classification.Kind), "error", err)
		return nil, err
	}

	s.cacheNewEntities(summary)

	s.logger.Info("Analyzed transaction preview",
		"class", string(classification.Kind),
		"kind", string(preview.Kind),
		"withdrawal_accounts", len(preview.Withdrawals),
		"deposit_accounts", len(preview.Deposits))
	return preview, nil
}

func (s *PreviewServiceImpl) process(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	classification entity.DetailedManifestClass,
) (*entity.Preview, error) {
	switch classification.Kind {
	case entity.ManifestClassGeneral:
		return s.processGeneral(ctx, summary, wallet)
	case entity.ManifestClassTransfer:
		return s.processTransfer(ctx, summary, wallet)
	case entity.ManifestClassPoolContribution:
		return s.processPoolContribution(ctx, summary, wallet, classification)
	case entity.ManifestClassPoolRedemption:
		return s.processPoolRedemption(ctx, summary, wallet, classification)
	case entity.ManifestClassValidatorStake:
		return s.processValidatorStake(ctx, summary, wallet, classification)
	case entity.ManifestClassValidatorUnstake:
		return s.processValidatorUnstake(ctx, summary, wallet, classification)
	case entity.ManifestClassValidatorClaim:
		return s.processValidatorClaim(ctx, summary, wallet, classification)
	case entity.ManifestClassAccountDepositSettingsUpdate:
		return s.processDepositSettings(ctx, summary, wallet, classification)
	}
	return entity.NonConformingPreview(), nil
}

// firstConforming returns the first classification the analyzer can render.
func firstConforming(classifications []entity.DetailedManifestClass) (entity.DetailedManifestClass, bool) {
	for _, classification := range classifications {
		if classification.Kind.IsConforming() {
			return classification, true
		}
	}
	return entity.DetailedManifestClass{}, false
}

// resolveSummaryAssets performs the single resolver round-trip of an analysis
// call: the summary's involved addresses plus any extra identifiers the
// processor needs, deduplicated.
func (s *PreviewServiceImpl) resolveSummaryAssets(
	ctx context.Context,
	summary entity.ExecutionSummary,
	extra ...entity.ResourceOrNonFungible,
) (map[entity.ResourceAddress]entity.Asset, error) {
	identifiers := involvedAddresses(summary)

	seen := make(map[entity.ResourceOrNonFungible]struct{}, len(identifiers))
	for _, id := range identifiers {
		seen[id] = struct{}{}
	}
	for _, id := range extra {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		identifiers = append(identifiers, id)
	}

	if len(identifiers) == 0 {
		return map[entity.ResourceAddress]entity.Asset{}, nil
	}

	assets, err := s.assets.Resolve(ctx, identifiers)
	if err != nil {
		return nil, err
	}
	return indexAssets(assets), nil
}

// resolveWithdrawals resolves the withdrawal side of the summary. Withdrawn
// amounts are decided before any component runs, so the guarantee offset is
// always zero.
func (s *PreviewServiceImpl) resolveWithdrawals(
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	byAddress map[entity.ResourceAddress]entity.Asset,
) ([]entity.AccountWithTransferables, error) {
	return resolveAccountTransfers(summary.Withdrawals, wallet, func(indicator entity.ResourceIndicator) (entity.Transferable, error) {
		return resolveTransferable(summary, byAddress, indicator, entity.DirectionWithdrawing, decimal.Zero)
	})
}

// resolveDeposits resolves the deposit side of the summary. Predicted deposit
// amounts take the wallet's configured default guarantee offset.
func (s *PreviewServiceImpl) resolveDeposits(
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
	byAddress map[entity.ResourceAddress]entity.Asset,
) ([]entity.AccountWithTransferables, error) {
	return resolveAccountTransfers(summary.Deposits, wallet, func(indicator entity.ResourceIndicator) (entity.Transferable, error) {
		return resolveTransferable(summary, byAddress, indicator, entity.DirectionDepositing, wallet.DefaultDepositGuarantee)
	})
}
