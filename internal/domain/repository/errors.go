package repository

import "errors"

// Sentinel errors shared by all repository implementations. Use cases map
// these onto the API error taxonomy.
var (
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate signals a uniqueness violation (email, username, SKU,
	// order number).
	ErrDuplicate = errors.New("duplicate entity")

	// ErrProductSold signals that the conditional mark-sold update matched
	// no row: someone else bought the product first.
	ErrProductSold = errors.New("product already sold")
)
