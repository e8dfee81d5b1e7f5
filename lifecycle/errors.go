package lifecycle

import "errors"

// Sentinel errors
var (
	ErrParentDead = errors.New("parent context is no longer alive")
	ErrNilContext = errors.New("context handle has no node")
)

// ContextError reports an operation attempted against a context whose chain is dead
type ContextError struct {
	Op  string
	Err error
}

func (e *ContextError) Error() string {
	return "lifecycle " + e.Op + ": " + e.Err.Error()
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
