package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidCatalog aborts a catalog load when upstream data is malformed.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrPreconditionViolated means an order was composed without a prior
	// successful validation. Callers must validate first.
	ErrPreconditionViolated = errors.New("order composed without successful validation")
)
