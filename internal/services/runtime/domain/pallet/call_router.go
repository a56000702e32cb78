package pallet

import (
	"fmt"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
)

// CallRouter dispatches a pallet's calls to typed handler functions by call
// type, and records the handled set for coverage validation.
type CallRouter[A any] struct {
	handlers map[call.Type]func(A, call.Call) error
	types    []call.Type
}

// NewCallRouter creates an empty call router.
func NewCallRouter[A any]() *CallRouter[A] {
	return &CallRouter[A]{
		handlers: make(map[call.Type]func(A, call.Call) error),
	}
}

// Dispatch routes c to its registered handler.
func (r *CallRouter[A]) Dispatch(caller A, c call.Call) error {
	if c == nil {
		return unroutable("<nil>", "call is required")
	}
	handler, ok := r.handlers[c.CallType()]
	if !ok {
		return unroutable(string(c.CallType()), fmt.Sprintf("unhandled call type: %s", c.CallType()))
	}
	return handler(caller, c)
}

// HandledCalls returns the call types this router handles, in registration
// order.
func (r *CallRouter[A]) HandledCalls() []call.Type {
	return append([]call.Type(nil), r.types...)
}

// HandleCall registers a typed handler. The call type is taken from the zero
// value of C, so C's CallType must not depend on field values.
//
// This is a top-level generic function because Go disallows method-level type
// parameters on generic types.
func HandleCall[A any, C call.Call](r *CallRouter[A], fn func(A, C) error) {
	var zero C
	t := zero.CallType()
	r.handlers[t] = func(caller A, c call.Call) error {
		typed, ok := c.(C)
		if !ok {
			return apperrors.WithMetadata(apperrors.CodeUnroutableCall,
				fmt.Sprintf("call %s has unexpected go type %T", t, c),
				map[string]string{"Call": string(t)})
		}
		return fn(caller, typed)
	}
	r.types = append(r.types, t)
}
