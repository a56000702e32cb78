package engine

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
)

var (
	// ErrBlockNumberMismatch matches a rejected block header by code.
	ErrBlockNumberMismatch = apperrors.New(apperrors.CodeBlockNumberMismatch, "block number mismatch")
	// ErrPalletsRequired indicates registries were built without pallets.
	ErrPalletsRequired = errors.New("at least one pallet is required")
)

func blockNumberMismatch(expected, got uint64) error {
	return apperrors.WithMetadata(apperrors.CodeBlockNumberMismatch,
		fmt.Sprintf("block number mismatch: expected %d, got %d", expected, got),
		map[string]string{
			"Expected": fmt.Sprint(expected),
			"Got":      fmt.Sprint(got),
		})
}
