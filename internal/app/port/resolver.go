package port

import (
	"context"

	"txpreview/internal/domain/entity"
)

// AssetResolver resolves resource and non-fungible identifiers against
// ledger state. It is the single blocking boundary of an analysis call.
type AssetResolver interface {
	// Resolve returns one Asset per resolvable identifier. An identifier
	// missing from the result is treated by callers as unresolvable.
	Resolve(ctx context.Context, identifiers []entity.ResourceOrNonFungible) ([]entity.Asset, error)
}

// DAppDefinitionResolver resolves a component address to its dApp identity.
// Resolution is best-effort; callers drop failures.
type DAppDefinitionResolver interface {
	ResolveDAppDefinition(ctx context.Context, address entity.ComponentAddress) (*entity.DAppDefinition, error)
}

// NewEntityCache records entities created by a reviewed transaction so that
// follow-up resolutions within the session can serve them locally.
type NewEntityCache interface {
	PutAssets(assets []entity.Asset)
	PutItems(items []entity.NonFungibleItem)
}
