package scene

import "errors"

// Sentinel errors
var (
	ErrUnknownUnit  = errors.New("unit id does not resolve")
	ErrInvalidLayer = errors.New("invalid layer")
	ErrNilDrawable  = errors.New("nil drawable")
	ErrNilID        = errors.New("nil unit id")
)
