package pallet

import (
	"fmt"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
)

// ErrUnroutableCall matches any routing failure by code.
var ErrUnroutableCall = apperrors.New(apperrors.CodeUnroutableCall, "call is not routable")

// Route forwards a call to the pallet that registered it and returns the
// pallet's result unchanged. It performs no validation of its own beyond
// resolving the owner.
func Route[A any](pallets *Registry[A], calls *call.Registry, caller A, c call.Call) error {
	if c == nil {
		return unroutable("<nil>", "call is required")
	}
	callType := c.CallType()
	def, ok := calls.Definition(callType)
	if !ok {
		return unroutable(string(callType), fmt.Sprintf("call type %s is not registered", callType))
	}
	p := pallets.Get(def.Pallet)
	if p == nil {
		return unroutable(string(callType), fmt.Sprintf("pallet %s is not registered", def.Pallet))
	}
	return p.Dispatch(caller, c)
}

func unroutable(callType, message string) error {
	return apperrors.WithMetadata(apperrors.CodeUnroutableCall, message, map[string]string{"Call": callType})
}
