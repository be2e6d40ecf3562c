package restapi

import (
	"github.com/shopspring/decimal"

	"txpreview/internal/domain/entity"
)

// PreviewResponse is the body returned by POST /api/v1/preview.
type PreviewResponse struct {
	Kind string `json:"kind"`

	Withdrawals []AccountTransfersDTO `json:"withdrawals,omitempty"`
	Deposits    []AccountTransfersDTO `json:"deposits,omitempty"`
	Badges      []BadgeDTO            `json:"badges,omitempty"`

	DApps      []DAppDefinitionDTO `json:"dapps,omitempty"`
	Validators []ValidatorDTO      `json:"validators,omitempty"`

	DepositSettings []DepositSettingsChangeDTO `json:"deposit_settings,omitempty"`
}

type AccountTransfersDTO struct {
	Address       string            `json:"address"`
	Owned         bool              `json:"owned"`
	Name          string            `json:"name,omitempty"`
	AppearanceID  uint8             `json:"appearance_id,omitempty"`
	Transferables []TransferableDTO `json:"transferables"`
}

type TransferableDTO struct {
	Direction      string `json:"direction"`
	Kind           string `json:"kind"`
	IsNewlyCreated bool   `json:"is_newly_created,omitempty"`

	ResourceAddress string           `json:"resource_address"`
	Symbol          string           `json:"symbol,omitempty"`
	Name            string           `json:"name,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	XRDWorth        *decimal.Decimal `json:"xrd_worth,omitempty"`

	Items     []TransferredItemDTO       `json:"items,omitempty"`
	Breakdown map[string]decimal.Decimal `json:"breakdown,omitempty"`

	Guarantee GuaranteeDTO `json:"guarantee"`
}

type TransferredItemDTO struct {
	LocalID        string           `json:"local_id"`
	Name           string           `json:"name,omitempty"`
	ClaimAmountXRD *decimal.Decimal `json:"claim_amount_xrd,omitempty"`
}

type GuaranteeDTO struct {
	Kind             string           `json:"kind"`
	InstructionIndex uint64           `json:"instruction_index,omitempty"`
	Offset           *decimal.Decimal `json:"offset,omitempty"`
}

type BadgeDTO struct {
	ResourceAddress string           `json:"resource_address"`
	Name            string           `json:"name,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	IDs             []string         `json:"ids,omitempty"`
}

type DAppDefinitionDTO struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type ValidatorDTO struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type DepositSettingsChangeDTO struct {
	Address string `json:"address"`
	Owned   bool   `json:"owned"`
	Name    string `json:"name,omitempty"`

	DefaultDepositRule  *string                       `json:"default_deposit_rule,omitempty"`
	ResourcePreferences []ResourcePreferenceChangeDTO `json:"resource_preferences,omitempty"`
	DepositorsAdded     []AuthorizedDepositorDTO      `json:"depositors_added,omitempty"`
	DepositorsRemoved   []AuthorizedDepositorDTO      `json:"depositors_removed,omitempty"`
}

type ResourcePreferenceChangeDTO struct {
	ResourceAddress string `json:"resource_address"`
	Name            string `json:"name,omitempty"`
	Kind            string `json:"kind"`
	Preference      string `json:"preference,omitempty"`
}

type AuthorizedDepositorDTO struct {
	ResourceAddress string `json:"resource_address"`
	LocalID         string `json:"local_id,omitempty"`
	Name            string `json:"name,omitempty"`
}

// NewPreviewResponse converts a preview to its API representation.
func NewPreviewResponse(preview *entity.Preview) PreviewResponse {
	response := PreviewResponse{
		Kind:        string(preview.Kind),
		Withdrawals: toAccountTransfers(preview.Withdrawals),
		Deposits:    toAccountTransfers(preview.Deposits),
	}

	for _, badge := range preview.Badges {
		dto := BadgeDTO{
			ResourceAddress: string(badge.Asset.ResourceAddress()),
			Amount:          badge.Amount,
		}
		if badge.Asset.IsFungible() {
			dto.Name = badge.Asset.Fungible.Metadata.Name
		} else {
			dto.Name = badge.Asset.NonFungible.Metadata.Name
		}
		for _, id := range badge.IDs {
			dto.IDs = append(dto.IDs, string(id))
		}
		response.Badges = append(response.Badges, dto)
	}

	for _, dapp := range preview.DApps {
		response.DApps = append(response.DApps, DAppDefinitionDTO{
			Address: string(dapp.Address),
			Name:    dapp.Name,
			IconURL: dapp.IconURL,
		})
	}

	for _, validator := range preview.Validators {
		response.Validators = append(response.Validators, ValidatorDTO{
			Address: string(validator.Address),
			Name:    validator.Name,
			IconURL: validator.IconURL,
		})
	}

	for _, change := range preview.DepositSettings {
		response.DepositSettings = append(response.DepositSettings, toDepositSettingsChange(change))
	}

	return response
}

func toAccountTransfers(accounts []entity.AccountWithTransferables) []AccountTransfersDTO {
	if len(accounts) == 0 {
		return nil
	}
	converted := make([]AccountTransfersDTO, 0, len(accounts))
	for _, account := range accounts {
		dto := AccountTransfersDTO{
			Address:       string(account.Address),
			Owned:         account.Owned,
			Name:          account.Account.Name,
			AppearanceID:  account.Account.AppearanceID,
			Transferables: make([]TransferableDTO, 0, len(account.Transferables)),
		}
		for _, transferable := range account.Transferables {
			dto.Transferables = append(dto.Transferables, toTransferable(transferable))
		}
		converted = append(converted, dto)
	}
	return converted
}

func toTransferable(transferable entity.Transferable) TransferableDTO {
	dto := TransferableDTO{
		Direction:       string(transferable.Direction),
		Kind:            string(transferable.Asset.Kind),
		IsNewlyCreated:  transferable.Asset.IsNewlyCreated,
		ResourceAddress: string(transferable.Asset.ResourceAddress()),
		Guarantee:       toGuarantee(transferable.Guarantee),
	}

	switch transferable.Asset.Kind {
	case entity.AssetToken:
		token := transferable.Asset.Token
		dto.Symbol = token.Resource.Metadata.Symbol
		dto.Name = token.Resource.Metadata.Name
		amount := token.Amount
		dto.Amount = &amount

	case entity.AssetLiquidStakeUnit:
		lsu := transferable.Asset.LSU
		dto.Symbol = lsu.Resource.Metadata.Symbol
		dto.Name = lsu.Resource.Metadata.Name
		amount := lsu.Amount
		worth := lsu.XRDWorth
		dto.Amount = &amount
		dto.XRDWorth = &worth

	case entity.AssetPoolUnit:
		unit := transferable.Asset.PoolUnit
		dto.Symbol = unit.Resource.Metadata.Symbol
		dto.Name = unit.Resource.Metadata.Name
		amount := unit.Amount
		dto.Amount = &amount
		if len(unit.ContributionPerResource) > 0 {
			dto.Breakdown = make(map[string]decimal.Decimal, len(unit.ContributionPerResource))
			for address, value := range unit.ContributionPerResource {
				dto.Breakdown[string(address)] = value
			}
		}

	case entity.AssetNonFungibleCollection:
		nft := transferable.Asset.NFT
		dto.Name = nft.Resource.Metadata.Name
		dto.Items = toItems(nft.Items)

	case entity.AssetStakeClaim:
		claim := transferable.Asset.StakeClaim
		dto.Name = claim.Resource.Metadata.Name
		dto.Items = toItems(claim.Items)
	}

	return dto
}

func toItems(items []entity.NonFungibleItem) []TransferredItemDTO {
	converted := make([]TransferredItemDTO, 0, len(items))
	for _, item := range items {
		converted = append(converted, TransferredItemDTO{
			LocalID:        string(item.LocalID),
			Name:           item.Name,
			ClaimAmountXRD: item.ClaimAmountXRD,
		})
	}
	return converted
}

func toGuarantee(guarantee entity.GuaranteeType) GuaranteeDTO {
	dto := GuaranteeDTO{Kind: string(guarantee.Kind)}
	if guarantee.Kind == entity.GuaranteePredicted {
		dto.InstructionIndex = guarantee.InstructionIndex
		offset := guarantee.Offset
		dto.Offset = &offset
	}
	return dto
}

func toDepositSettingsChange(change entity.AccountDepositSettingsChange) DepositSettingsChangeDTO {
	dto := DepositSettingsChangeDTO{
		Address: string(change.Address),
		Owned:   change.Owned,
		Name:    change.Account.Name,
	}
	if change.DefaultDepositRule != nil {
		rule := string(*change.DefaultDepositRule)
		dto.DefaultDepositRule = &rule
	}

	for _, preference := range change.ResourcePreferences {
		converted := ResourcePreferenceChangeDTO{
			ResourceAddress: string(preference.Address),
			Kind:            string(preference.Update.Kind),
			Preference:      string(preference.Update.Preference),
		}
		if preference.Resource != nil {
			converted.Name = assetName(*preference.Resource)
		}
		dto.ResourcePreferences = append(dto.ResourcePreferences, converted)
	}

	dto.DepositorsAdded = toDepositorDTOs(change.DepositorsAdded)
	dto.DepositorsRemoved = toDepositorDTOs(change.DepositorsRemoved)
	return dto
}

func toDepositorDTOs(depositors []entity.AuthorizedDepositorChange) []AuthorizedDepositorDTO {
	if len(depositors) == 0 {
		return nil
	}
	converted := make([]AuthorizedDepositorDTO, 0, len(depositors))
	for _, depositor := range depositors {
		dto := AuthorizedDepositorDTO{
			ResourceAddress: string(depositor.Identifier.ResourceAddress),
			LocalID:         string(depositor.Identifier.LocalID),
		}
		if depositor.Resource != nil {
			dto.Name = assetName(*depositor.Resource)
		}
		converted = append(converted, dto)
	}
	return converted
}

func assetName(asset entity.Asset) string {
	if asset.IsFungible() {
		return asset.Fungible.Metadata.Name
	}
	return asset.NonFungible.Metadata.Name
}
