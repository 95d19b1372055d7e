package domain

import (
	"github.com/durfee/passwords/internal/errors"
)

// Account-specific error definitions.
var (
	// ErrAccountNotFound indicates no account matched the given id and tenant.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrMalformedAccountID indicates the supplied id is not a well-formed
	// account identifier.
	ErrMalformedAccountID = errors.Wrap(errors.ErrInvalidInput, "malformed account id")
)
