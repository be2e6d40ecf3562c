package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txpreview/internal/app/port"
	"txpreview/internal/domain/entity"
)

const (
	xrdAddress    entity.ResourceAddress  = "resource_rdx1_xrd"
	tokenAddress  entity.ResourceAddress  = "resource_rdx1_token"
	nftAddress    entity.ResourceAddress  = "resource_rdx1_nft"
	lsuAddress    entity.ResourceAddress  = "resource_rdx1_lsu"
	poolUnitAddr  entity.ResourceAddress  = "resource_rdx1_pool_unit"
	claimNFTAddr  entity.ResourceAddress  = "resource_rdx1_claim"
	accountAlice  entity.AccountAddress   = "account_rdx1_alice"
	accountBob    entity.AccountAddress   = "account_rdx1_bob"
	accountDApp   entity.AccountAddress   = "account_rdx1_dapp"
	validatorAddr entity.ValidatorAddress = "validator_rdx1_main"
	poolAddr      entity.PoolAddress      = "pool_rdx1_main"
)

type stubResolver struct {
	assets []entity.Asset
	err    error
	calls  int
	got    []entity.ResourceOrNonFungible
}

func (r *stubResolver) Resolve(_ context.Context, identifiers []entity.ResourceOrNonFungible) ([]entity.Asset, error) {
	r.calls++
	r.got = identifiers
	return r.assets, r.err
}

type stubDAppResolver struct {
	definitions map[entity.ComponentAddress]entity.DAppDefinition
}

func (r *stubDAppResolver) ResolveDAppDefinition(_ context.Context, address entity.ComponentAddress) (*entity.DAppDefinition, error) {
	if definition, ok := r.definitions[address]; ok {
		return &definition, nil
	}
	return nil, errors.New("no dapp definition")
}

type stubCache struct {
	assets []entity.Asset
	items  []entity.NonFungibleItem
}

func (c *stubCache) PutAssets(assets []entity.Asset) { c.assets = append(c.assets, assets...) }

func (c *stubCache) PutItems(items []entity.NonFungibleItem) { c.items = append(c.items, items...) }

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func newService(resolver *stubResolver, dapps *stubDAppResolver, cache *stubCache) *PreviewServiceImpl {
	if dapps == nil {
		dapps = &stubDAppResolver{}
	}
	// A typed nil would make the service's nil check pass and blow up on the
	// first put, so only a present cache goes into the interface.
	var entityCache port.NewEntityCache
	if cache != nil {
		entityCache = cache
	}
	return NewPreviewService(resolver, dapps, entityCache, nopLogger{}, xrdAddress).(*PreviewServiceImpl)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tokenAsset(address entity.ResourceAddress, symbol string) entity.Asset {
	return entity.Asset{
		Kind: entity.AssetToken,
		Fungible: &entity.FungibleResource{
			Address:      address,
			Divisibility: 18,
			Metadata:     entity.ResourceMetadata{Symbol: symbol},
		},
	}
}

func guaranteedFungible(address entity.ResourceAddress, amount string) entity.ResourceIndicator {
	return entity.ResourceIndicator{
		ResourceAddress: address,
		Fungible:        &entity.FungibleIndicator{Kind: entity.FungibleGuaranteed, Amount: dec(amount)},
	}
}

func predictedFungible(address entity.ResourceAddress, amount string, index uint64) entity.ResourceIndicator {
	return entity.ResourceIndicator{
		ResourceAddress: address,
		Fungible: &entity.FungibleIndicator{
			Kind:             entity.FungiblePredicted,
			Amount:           dec(amount),
			InstructionIndex: index,
		},
	}
}

func testWallet() entity.WalletContext {
	return entity.WalletContext{
		OwnedAccounts: []entity.Account{
			{Address: accountAlice, Name: "Alice", AppearanceID: 0},
			{Address: accountBob, Name: "Bob", AppearanceID: 1},
		},
		DefaultDepositGuarantee: dec("0.99"),
	}
}

func classified(kind entity.ManifestClassKind, summary entity.ExecutionSummary) entity.ExecutionSummary {
	summary.DetailedClassifications = []entity.DetailedManifestClass{{Kind: kind}}
	return summary
}

func TestAnalyzeNonConformingSkipsResolution(t *testing.T) {
	resolver := &stubResolver{}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "10")},
		},
		DetailedClassifications: []entity.DetailedManifestClass{{Kind: "flashLoan"}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewNonConforming, preview.Kind)
	assert.Zero(t, resolver.calls)
}

func TestAnalyzeFirstConformingClassificationWins(t *testing.T) {
	resolver := &stubResolver{assets: []entity.Asset{tokenAsset(tokenAddress, "TKN")}}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "10")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountBob: {guaranteedFungible(tokenAddress, "10")},
		},
		DetailedClassifications: []entity.DetailedManifestClass{
			{Kind: "flashLoan"},
			{Kind: entity.ManifestClassTransfer},
			{Kind: entity.ManifestClassGeneral},
		},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewSimpleTransfer, preview.Kind)
	assert.Equal(t, 1, resolver.calls)
}

func TestAnalyzeSimpleTransfer(t *testing.T) {
	resolver := &stubResolver{assets: []entity.Asset{tokenAsset(tokenAddress, "TKN")}}
	svc := newService(resolver, nil, nil)

	summary := classified(entity.ManifestClassTransfer, entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "25.5")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountDApp: {guaranteedFungible(tokenAddress, "25.5")},
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)

	require.Len(t, preview.Withdrawals, 1)
	withdrawal := preview.Withdrawals[0]
	assert.True(t, withdrawal.Owned)
	assert.Equal(t, "Alice", withdrawal.Account.Name)
	require.Len(t, withdrawal.Transferables, 1)
	transferable := withdrawal.Transferables[0]
	assert.Equal(t, entity.DirectionWithdrawing, transferable.Direction)
	assert.Equal(t, entity.GuaranteeGuaranteed, transferable.Guarantee.Kind)
	require.Equal(t, entity.AssetToken, transferable.Asset.Kind)
	assert.Equal(t, "25.5", transferable.Asset.Token.Amount.String())

	require.Len(t, preview.Deposits, 1)
	assert.False(t, preview.Deposits[0].Owned)
	assert.Equal(t, accountDApp, preview.Deposits[0].Address)
}

func TestAnalyzePredictedDepositCarriesDefaultGuarantee(t *testing.T) {
	resolver := &stubResolver{assets: []entity.Asset{tokenAsset(tokenAddress, "TKN")}}
	svc := newService(resolver, nil, nil)

	summary := classified(entity.ManifestClassGeneral, entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {predictedFungible(tokenAddress, "10", 2)},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountBob: {predictedFungible(tokenAddress, "10", 4)},
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)

	withdrawal := preview.Withdrawals[0].Transferables[0].Guarantee
	assert.Equal(t, entity.GuaranteePredicted, withdrawal.Kind)
	assert.Equal(t, uint64(2), withdrawal.InstructionIndex)
	assert.True(t, withdrawal.Offset.IsZero())

	deposit := preview.Deposits[0].Transferables[0].Guarantee
	assert.Equal(t, entity.GuaranteePredicted, deposit.Kind)
	assert.Equal(t, uint64(4), deposit.InstructionIndex)
	assert.Equal(t, "0.99", deposit.Offset.String())
}

func TestAnalyzeFailsWhenMovedResourceIsUnresolvable(t *testing.T) {
	resolver := &stubResolver{}
	svc := newService(resolver, nil, nil)

	summary := classified(entity.ManifestClassGeneral, entity.ExecutionSummary{
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "1")},
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.Error(t, err)
	assert.Nil(t, preview)

	var notResolved *entity.ResourceCouldNotBeResolvedError
	require.ErrorAs(t, err, &notResolved)
	assert.Equal(t, tokenAddress, notResolved.Identifier.ResourceAddress)
}

func TestAnalyzeNewlyCreatedResourceWinsOverResolver(t *testing.T) {
	stale := tokenAsset(tokenAddress, "STALE")
	resolver := &stubResolver{assets: []entity.Asset{stale}}
	cache := &stubCache{}
	svc := newService(resolver, nil, cache)

	summary := classified(entity.ManifestClassGeneral, entity.ExecutionSummary{
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "1000")},
		},
		NewEntities: entity.NewEntities{
			Metadata: map[entity.ResourceAddress]entity.NewlyCreatedResource{
				tokenAddress: {Name: "Fresh Token", Symbol: "FRESH"},
			},
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)

	transferable := preview.Deposits[0].Transferables[0]
	assert.True(t, transferable.Asset.IsNewlyCreated)
	assert.Equal(t, "FRESH", transferable.Asset.Token.Resource.Metadata.Symbol)

	// The created resource never reaches the resolver and is cached for
	// follow-up lookups in the session.
	for _, id := range resolver.got {
		assert.NotEqual(t, tokenAddress, id.ResourceAddress)
	}
	require.Len(t, cache.assets, 1)
	assert.Equal(t, tokenAddress, cache.assets[0].ResourceAddress())
}

func TestGeneralTransferLabelsComponents(t *testing.T) {
	resolver := &stubResolver{assets: []entity.Asset{tokenAsset(tokenAddress, "TKN")}}
	dapps := &stubDAppResolver{definitions: map[entity.ComponentAddress]entity.DAppDefinition{
		"component_rdx1_dex": {Address: "component_rdx1_dex", Name: "DEX"},
	}}
	svc := newService(resolver, dapps, nil)

	summary := classified(entity.ManifestClassGeneral, entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "5")},
		},
		EncounteredComponents: []entity.ComponentAddress{
			"component_rdx1_dex",
			"component_rdx1_unknown",
			"component_rdx1_dex",
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)

	// Unresolvable components are dropped, duplicates collapse.
	require.Len(t, preview.DApps, 1)
	assert.Equal(t, "DEX", preview.DApps[0].Name)
}

func TestPoolContributionBreakdownFollowsTrackedRecords(t *testing.T) {
	poolUnit := entity.Asset{
		Kind: entity.AssetPoolUnit,
		Fungible: &entity.FungibleResource{
			Address:      poolUnitAddr,
			Divisibility: 18,
		},
		Pool: &entity.Pool{
			Address:    poolAddr,
			UnitSupply: dec("1000"),
			Resources: []entity.PoolResource{
				{Address: tokenAddress, Divisibility: 18, Reserve: dec("123456")},
				{Address: xrdAddress, Divisibility: 18, Reserve: dec("654321")},
			},
		},
	}
	resolver := &stubResolver{assets: []entity.Asset{
		poolUnit,
		tokenAsset(tokenAddress, "TKN"),
		tokenAsset(xrdAddress, "XRD"),
	}}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {
				guaranteedFungible(tokenAddress, "100"),
				guaranteedFungible(xrdAddress, "50"),
			},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {predictedFungible(poolUnitAddr, "5", 3)},
		},
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind: entity.ManifestClassPoolContribution,
			PoolContributions: []entity.TrackedPoolContribution{{
				PoolAddress: poolAddr,
				ContributedResources: map[entity.ResourceAddress]decimal.Decimal{
					tokenAddress: dec("100"),
					xrdAddress:   dec("50"),
				},
				PoolUnitsResource: poolUnitAddr,
				PoolUnitsAmount:   dec("10"),
			}},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewPoolContribution, preview.Kind)

	transferable := preview.Deposits[0].Transferables[0]
	require.Equal(t, entity.AssetPoolUnit, transferable.Asset.Kind)
	breakdown := transferable.Asset.PoolUnit.ContributionPerResource
	// Half the minted units were deposited, so half the contribution shows.
	assert.Equal(t, "50", breakdown[tokenAddress].String())
	assert.Equal(t, "25", breakdown[xrdAddress].String())
}

func TestValidatorStakeWorthFollowsTrackedStakes(t *testing.T) {
	validator := entity.Validator{
		Address:         validatorAddr,
		Name:            "Main Validator",
		TotalXRDStake:   dec("1000000"),
		StakeUnitSupply: dec("900000"),
	}
	lsu := entity.Asset{
		Kind: entity.AssetLiquidStakeUnit,
		Fungible: &entity.FungibleResource{
			Address:      lsuAddress,
			Divisibility: 18,
		},
		Validator: &validator,
	}
	resolver := &stubResolver{assets: []entity.Asset{lsu, tokenAsset(xrdAddress, "XRD")}}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(xrdAddress, "100")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {predictedFungible(lsuAddress, "90", 2)},
		},
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind:               entity.ManifestClassValidatorStake,
			ValidatorAddresses: []entity.ValidatorAddress{validatorAddr},
			ValidatorStakes: []entity.TrackedValidatorStake{{
				ValidatorAddress:      validatorAddr,
				XRDAmount:             dec("100"),
				LiquidStakeUnit:       lsuAddress,
				LiquidStakeUnitAmount: dec("90"),
			}},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewValidatorStake, preview.Kind)

	transferable := preview.Deposits[0].Transferables[0]
	require.Equal(t, entity.AssetLiquidStakeUnit, transferable.Asset.Kind)
	// Exactly the staked XRD, not the global exchange-rate estimate.
	assert.Equal(t, "100", transferable.Asset.LSU.XRDWorth.String())

	require.Len(t, preview.Validators, 1)
	assert.Equal(t, "Main Validator", preview.Validators[0].Name)
}

func TestValidatorUnstakeClaimWorthFromClassification(t *testing.T) {
	validator := entity.Validator{
		Address:              validatorAddr,
		TotalXRDStake:        dec("1000000"),
		StakeUnitSupply:      dec("900000"),
		ClaimResourceAddress: claimNFTAddr,
	}
	lsu := entity.Asset{
		Kind:      entity.AssetLiquidStakeUnit,
		Fungible:  &entity.FungibleResource{Address: lsuAddress, Divisibility: 18},
		Validator: &validator,
	}
	claimCollection := entity.Asset{
		Kind:        entity.AssetStakeClaim,
		NonFungible: &entity.NonFungibleResource{Address: claimNFTAddr},
		Validator:   &validator,
	}
	resolver := &stubResolver{assets: []entity.Asset{lsu, claimCollection}}
	svc := newService(resolver, nil, nil)

	claimID := entity.NonFungibleGlobalID{ResourceAddress: claimNFTAddr, LocalID: "#1#"}
	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(lsuAddress, "90")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {{
				ResourceAddress: claimNFTAddr,
				NonFungible: &entity.NonFungibleIndicator{
					Kind:             entity.NonFungibleByAmount,
					IDs:              []entity.NonFungibleLocalID{"#1#"},
					InstructionIndex: 5,
				},
			}},
		},
		NewlyCreatedNonFungibles: []entity.NonFungibleGlobalID{claimID},
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind:               entity.ManifestClassValidatorUnstake,
			ValidatorAddresses: []entity.ValidatorAddress{validatorAddr},
			ValidatorUnstakes: []entity.TrackedValidatorStake{{
				ValidatorAddress:      validatorAddr,
				XRDAmount:             dec("100"),
				LiquidStakeUnit:       lsuAddress,
				LiquidStakeUnitAmount: dec("90"),
			}},
			UnstakeClaimsInSummary: map[entity.NonFungibleGlobalID]decimal.Decimal{
				claimID: dec("100"),
			},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewValidatorUnstake, preview.Kind)

	withdrawn := preview.Withdrawals[0].Transferables[0]
	assert.Equal(t, "100", withdrawn.Asset.LSU.XRDWorth.String())

	deposited := preview.Deposits[0].Transferables[0]
	require.Equal(t, entity.AssetStakeClaim, deposited.Asset.Kind)
	assert.Equal(t, entity.GuaranteePredicted, deposited.Guarantee.Kind)
	worth, ok := deposited.Asset.StakeClaim.XRDWorthPerItem["#1#"]
	require.True(t, ok)
	assert.Equal(t, "100", worth.String())
}

func TestAnalyzeWithoutEntityCacheStillRendersNewEntities(t *testing.T) {
	resolver := &stubResolver{}
	svc := newService(resolver, nil, nil)

	claimID := entity.NonFungibleGlobalID{ResourceAddress: nftAddress, LocalID: "#1#"}
	summary := classified(entity.ManifestClassGeneral, entity.ExecutionSummary{
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {{
				ResourceAddress: nftAddress,
				NonFungible: &entity.NonFungibleIndicator{
					Kind: entity.NonFungibleByIDs,
					IDs:  []entity.NonFungibleLocalID{"#1#"},
				},
			}},
		},
		NewEntities: entity.NewEntities{
			Metadata: map[entity.ResourceAddress]entity.NewlyCreatedResource{
				nftAddress: {Name: "Fresh Collection"},
			},
		},
		NewlyCreatedNonFungibles: []entity.NonFungibleGlobalID{claimID},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.True(t, preview.Deposits[0].Transferables[0].Asset.IsNewlyCreated)
	assert.Zero(t, resolver.calls)
}

func TestMovedAmountKeepsIndicatorPrecision(t *testing.T) {
	coarse := tokenAsset(tokenAddress, "TKN")
	coarse.Fungible.Divisibility = 2
	resolver := &stubResolver{assets: []entity.Asset{coarse}}
	svc := newService(resolver, nil, nil)

	summary := classified(entity.ManifestClassTransfer, entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(tokenAddress, "10.123456789")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountBob: {guaranteedFungible(tokenAddress, "10.123456789")},
		},
	})

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)

	// The amount the user approves is the indicator's, not a value rounded
	// to the resource's declared divisibility.
	assert.Equal(t, "10.123456789", preview.Withdrawals[0].Transferables[0].Asset.Token.Amount.String())
	assert.Equal(t, "10.123456789", preview.Deposits[0].Transferables[0].Asset.Token.Amount.String())
}

func TestPoolRedemptionBreakdownFollowsTrackedRecords(t *testing.T) {
	poolUnit := entity.Asset{
		Kind: entity.AssetPoolUnit,
		Fungible: &entity.FungibleResource{
			Address:      poolUnitAddr,
			Divisibility: 18,
		},
		Pool: &entity.Pool{
			Address:    poolAddr,
			UnitSupply: dec("1000"),
			Resources: []entity.PoolResource{
				{Address: tokenAddress, Divisibility: 18, Reserve: dec("123456")},
				{Address: xrdAddress, Divisibility: 18, Reserve: dec("654321")},
			},
		},
	}
	resolver := &stubResolver{assets: []entity.Asset{
		poolUnit,
		tokenAsset(tokenAddress, "TKN"),
		tokenAsset(xrdAddress, "XRD"),
	}}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(poolUnitAddr, "5")},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {
				predictedFungible(tokenAddress, "50", 3),
				predictedFungible(xrdAddress, "25", 3),
			},
		},
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind: entity.ManifestClassPoolRedemption,
			PoolRedemptions: []entity.TrackedPoolRedemption{{
				PoolAddress:       poolAddr,
				PoolUnitsResource: poolUnitAddr,
				PoolUnitsAmount:   dec("10"),
				RedeemedResources: map[entity.ResourceAddress]decimal.Decimal{
					tokenAddress: dec("100"),
					xrdAddress:   dec("50"),
				},
			}},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewPoolRedemption, preview.Kind)

	transferable := preview.Withdrawals[0].Transferables[0]
	require.Equal(t, entity.AssetPoolUnit, transferable.Asset.Kind)
	breakdown := transferable.Asset.PoolUnit.ContributionPerResource
	// Half the redeemed units leave the account, so half of each constituent.
	assert.Equal(t, "50", breakdown[tokenAddress].String())
	assert.Equal(t, "25", breakdown[xrdAddress].String())
}

func TestValidatorClaimWorthFollowsTrackedClaims(t *testing.T) {
	validator := entity.Validator{
		Address:              validatorAddr,
		Name:                 "Main Validator",
		TotalXRDStake:        dec("1000000"),
		StakeUnitSupply:      dec("900000"),
		ClaimResourceAddress: claimNFTAddr,
	}
	claimCollection := entity.Asset{
		Kind:        entity.AssetStakeClaim,
		NonFungible: &entity.NonFungibleResource{Address: claimNFTAddr},
		Validator:   &validator,
	}
	resolver := &stubResolver{assets: []entity.Asset{claimCollection, tokenAsset(xrdAddress, "XRD")}}
	svc := newService(resolver, nil, nil)

	summary := entity.ExecutionSummary{
		Withdrawals: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {{
				ResourceAddress: claimNFTAddr,
				NonFungible: &entity.NonFungibleIndicator{
					Kind: entity.NonFungibleByIDs,
					IDs:  []entity.NonFungibleLocalID{"#1#"},
				},
			}},
		},
		Deposits: map[entity.AccountAddress][]entity.ResourceIndicator{
			accountAlice: {guaranteedFungible(xrdAddress, "100")},
		},
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind:               entity.ManifestClassValidatorClaim,
			ValidatorAddresses: []entity.ValidatorAddress{validatorAddr},
			ValidatorClaims: []entity.TrackedValidatorClaim{{
				ValidatorAddress: validatorAddr,
				ClaimNFTResource: claimNFTAddr,
				ClaimNFTIDs:      []entity.NonFungibleLocalID{"#1#"},
				XRDAmount:        dec("100"),
			}},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewValidatorClaim, preview.Kind)

	withdrawn := preview.Withdrawals[0].Transferables[0]
	require.Equal(t, entity.AssetStakeClaim, withdrawn.Asset.Kind)
	worth, ok := withdrawn.Asset.StakeClaim.XRDWorthPerItem["#1#"]
	require.True(t, ok)
	assert.Equal(t, "100", worth.String())

	require.Len(t, preview.Validators, 1)
	assert.Equal(t, "Main Validator", preview.Validators[0].Name)
}

func TestDepositSettingsDiffResolvesMentionedResourcesOnly(t *testing.T) {
	resolver := &stubResolver{assets: []entity.Asset{tokenAsset(tokenAddress, "TKN")}}
	svc := newService(resolver, nil, nil)

	ruleDenyAll := entity.DepositRuleDenyAll
	summary := entity.ExecutionSummary{
		DetailedClassifications: []entity.DetailedManifestClass{{
			Kind: entity.ManifestClassAccountDepositSettingsUpdate,
			DepositRuleUpdates: map[entity.AccountAddress]entity.DepositRule{
				accountBob: ruleDenyAll,
			},
			ResourcePreferenceUpdates: map[entity.AccountAddress]map[entity.ResourceAddress]entity.ResourcePreferenceUpdate{
				accountAlice: {
					tokenAddress: {Kind: entity.ResourcePreferenceSet, Preference: entity.ResourcePreferenceAllowed},
					nftAddress:   {Kind: entity.ResourcePreferenceRemove},
				},
			},
		}},
	}

	preview, err := svc.Analyze(context.Background(), summary, testWallet())
	require.NoError(t, err)
	assert.Equal(t, entity.PreviewAccountDepositSettings, preview.Kind)

	require.Len(t, preview.DepositSettings, 2)
	// Owned accounts first, in profile order.
	alice := preview.DepositSettings[0]
	assert.Equal(t, accountAlice, alice.Address)
	assert.Nil(t, alice.DefaultDepositRule)
	require.Len(t, alice.ResourcePreferences, 2)

	for _, preference := range alice.ResourcePreferences {
		switch preference.Address {
		case tokenAddress:
			require.NotNil(t, preference.Resource)
			assert.Equal(t, "TKN", preference.Resource.Fungible.Metadata.Symbol)
		case nftAddress:
			// Unresolvable entries stay address-only instead of failing.
			assert.Nil(t, preference.Resource)
		default:
			t.Fatalf("unexpected preference for %s", preference.Address)
		}
	}

	bob := preview.DepositSettings[1]
	assert.Equal(t, accountBob, bob.Address)
	require.NotNil(t, bob.DefaultDepositRule)
	assert.Equal(t, ruleDenyAll, *bob.DefaultDepositRule)
}
