package types

import "errors"

// Storage errors. Engine errors are wrapped together with ErrExecution so both
// errors.Is(err, ErrExecution) and the driver's own error remain reachable.
var (
	ErrConnection  = errors.New("cannot open store")
	ErrSchema      = errors.New("schema statement failed")
	ErrExecution   = errors.New("statement failed")
	ErrStoreClosed = errors.New("store is closed")
)

// Conversion errors.
var (
	ErrSerialization = errors.New("cannot serialize record")
	ErrMissingField  = errors.New("declared field missing from record")
	ErrCoercion      = errors.New("cannot coerce stored value")
)

// Model and query errors.
var (
	ErrInvalidModel    = errors.New("invalid model description")
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidLimit    = errors.New("limit must not be negative")
	ErrBuilderConsumed = errors.New("query builder already fetched")
)

// Config validation errors.
var (
	ErrDriverEmpty     = errors.New("driver must not be empty")
	ErrDriverUnknown   = errors.New("unknown driver")
	ErrCoercionUnknown = errors.New("unknown coercion policy")
	ErrDSNInvalid      = errors.New("invalid data source name")
)
