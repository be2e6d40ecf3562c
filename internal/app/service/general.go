package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"txpreview/internal/domain/entity"
)

// processTransfer renders the simple one-to-one transfer classification. It
// shares the general pipeline but skips component labelling since a plain
// transfer never touches a component.
func (s *PreviewServiceImpl) processTransfer(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.resolveWithdrawals(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}
	deposits, err := s.resolveDeposits(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}

	return &entity.Preview{
		Kind:        entity.PreviewSimpleTransfer,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
	}, nil
}

// processGeneral renders the general classification: arbitrary withdrawals
// and deposits plus presented proofs and best-effort labels for every
// component the transaction touched.
func (s *PreviewServiceImpl) processGeneral(
	ctx context.Context,
	summary entity.ExecutionSummary,
	wallet entity.WalletContext,
) (*entity.Preview, error) {
	byAddress, err := s.resolveSummaryAssets(ctx, summary)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.resolveWithdrawals(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}
	deposits, err := s.resolveDeposits(summary, wallet, byAddress)
	if err != nil {
		return nil, err
	}

	return &entity.Preview{
		Kind:        entity.PreviewGeneralTransfer,
		Withdrawals: withdrawals,
		Deposits:    deposits,
		Badges:      resolveBadges(summary, byAddress),
		DApps:       s.resolveDApps(ctx, summary.EncounteredComponents),
	}, nil
}

// resolveDApps labels the encountered components concurrently. Labelling is
// best-effort: components that fail to resolve or carry no dApp definition
// are dropped. Output keeps encounter order.
func (s *PreviewServiceImpl) resolveDApps(ctx context.Context, components []entity.ComponentAddress) []entity.DAppDefinition {
	distinct := make([]entity.ComponentAddress, 0, len(components))
	seen := make(map[entity.ComponentAddress]struct{}, len(components))
	for _, component := range components {
		if _, ok := seen[component]; ok {
			continue
		}
		seen[component] = struct{}{}
		distinct = append(distinct, component)
	}

	resolved := make([]*entity.DAppDefinition, len(distinct))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, component := range distinct {
		i, component := i, component
		g.Go(func() error {
			definition, err := s.dapps.ResolveDAppDefinition(gctx, component)
			if err != nil {
				s.logger.Debug("Skipping unresolvable dApp definition",
					"component", string(component), "error", err)
				return nil
			}
			mu.Lock()
			resolved[i] = definition
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	dapps := make([]entity.DAppDefinition, 0, len(distinct))
	for _, definition := range resolved {
		if definition != nil {
			dapps = append(dapps, *definition)
		}
	}
	return dapps
}
