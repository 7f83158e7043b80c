package ledger

import "errors"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrUnknownCategory    = errors.New("unknown transaction category")
	ErrEntryNotFound      = errors.New("transaction entry not found")
	ErrDuplicateEntry     = errors.New("duplicate transaction entry")
	ErrMissingID          = errors.New("entry id is required")
	ErrOutOfOrder         = errors.New("entry timestamp precedes log tail")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotRefundable      = errors.New("transaction is not refundable")
	ErrAlreadyRefunded    = errors.New("transaction already refunded")
	ErrReferenceConflict  = errors.New("reference already used by a different transaction")
)
