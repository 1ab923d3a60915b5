package service

import (
	"errors"

	"go-depot-api/internal/model"
)

// Domain error taxonomy. All of these are recoverable at the
// request/distribution granularity: the caller adjusts inputs and
// resubmits, nothing is retried automatically.
var (
	ErrMaterialNotFound       = errors.New("material not found")
	ErrRequestNotFound        = errors.New("request not found")
	ErrInsufficientStock      = errors.New("insufficient stock remaining")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidMovementType    = errors.New("unknown movement type")
	ErrInvalidGrant           = errors.New("granted quantity exceeds requested quantity or available stock")
	ErrInvalidTransition      = errors.New("illegal status transition")
	ErrEmptyRequest           = errors.New("request must contain at least one item")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrMissingRecipient       = errors.New("distribution requires exactly one recipient")
	ErrMotifRequired          = errors.New("a justification motif is required")
	ErrCommentRequired        = errors.New("a rejection comment is required")
	ErrConcurrentModification = errors.New("concurrent modification, retry the operation")
	ErrMaterialInactive       = errors.New("material is deactivated")
	ErrInvalidPriority        = errors.New("unknown priority")
	ErrSiteNotFound           = errors.New("site not found")
)

// ErrStockExceeded is the soft cart-level warning; it lives with the
// cart value object and is re-exported here so handlers map the whole
// taxonomy from one place.
var ErrStockExceeded = model.ErrStockExceeded
