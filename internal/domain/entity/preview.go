package entity

// PreviewKind enumerates the terminal preview classifications.
type PreviewKind string

const (
	PreviewGeneralTransfer        PreviewKind = "generalTransfer"
	PreviewSimpleTransfer         PreviewKind = "simpleTransfer"
	PreviewPoolContribution       PreviewKind = "poolContribution"
	PreviewPoolRedemption         PreviewKind = "poolRedemption"
	PreviewValidatorStake         PreviewKind = "validatorStake"
	PreviewValidatorUnstake       PreviewKind = "validatorUnstake"
	PreviewValidatorClaim         PreviewKind = "validatorClaim"
	PreviewAccountDepositSettings PreviewKind = "accountDepositSettings"
	PreviewNonConforming          PreviewKind = "nonConforming"
)

// DAppDefinition labels a component encountered in a transaction with its
// dApp identity. Resolution is best-effort.
type DAppDefinition struct {
	Address ComponentAddress
	Name    string
	IconURL string
}

// ResourcePreferenceChange is one resolved per-resource deposit preference
// diff for an account. Resource is nil when the resource could not be
// resolved as part of the settings diff (it is still shown by address).
type ResourcePreferenceChange struct {
	Address  ResourceAddress
	Resource *Asset
	Update   ResourcePreferenceUpdate
}

// AuthorizedDepositorChange is one authorized-depositor badge added to or
// removed from an account's deposit settings.
type AuthorizedDepositorChange struct {
	Identifier ResourceOrNonFungible
	Resource   *Asset
}

// AccountDepositSettingsChange is the resolved diff of one account's deposit
// settings.
type AccountDepositSettingsChange struct {
	Owned   bool
	Account Account
	Address AccountAddress

	DefaultDepositRule  *DepositRule
	ResourcePreferences []ResourcePreferenceChange
	DepositorsAdded     []AuthorizedDepositorChange
	DepositorsRemoved   []AuthorizedDepositorChange
}

// Preview is the terminal result of one analysis call: the classification
// and its structured, human-reviewable content. It is constructed once and
// never mutated after return.
type Preview struct {
	Kind PreviewKind

	Withdrawals []AccountWithTransferables
	Deposits    []AccountWithTransferables
	Badges      []Badge

	// DApps labels the components encountered by a general transfer.
	DApps []DAppDefinition

	// Validators carries the resolved validators involved in staking,
	// unstaking and claiming.
	Validators []Validator

	// DepositSettings carries the per-account diffs of a deposit-settings
	// update. The transferable pipeline is not used for that kind.
	DepositSettings []AccountDepositSettingsChange
}

// NonConformingPreview is the preview for transactions the analyzer cannot
// render structurally.
func NonConformingPreview() *Preview {
	return &Preview{Kind: PreviewNonConforming}
}
