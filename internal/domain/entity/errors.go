package entity

import "fmt"

// ResourceCouldNotBeResolvedError reports a resource or non-fungible item
// that a movement, badge or classification record references but that the
// resolver did not return and the transaction did not create. It aborts the
// whole analysis: no partial preview is ever produced for it.
type ResourceCouldNotBeResolvedError struct {
	Identifier ResourceOrNonFungible
}

func (e *ResourceCouldNotBeResolvedError) Error() string {
	return fmt.Sprintf("resource %s could not be resolved in transaction", e.Identifier)
}

// NewResourceNotResolvedError builds the fatal resolution error for a whole
// resource.
func NewResourceNotResolvedError(address ResourceAddress) error {
	return &ResourceCouldNotBeResolvedError{Identifier: ResourceID(address)}
}
