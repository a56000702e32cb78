// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Block errors
	CodeBlockNumberMismatch Code = "BLOCK_NUMBER_MISMATCH"

	// Balances errors
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeBalanceOverflow     Code = "BALANCE_OVERFLOW"

	// Proof of existence errors
	CodeClaimAlreadyExists Code = "CLAIM_ALREADY_EXISTS"
	CodeClaimNotExists     Code = "CLAIM_NOT_EXISTS"
	CodeNotClaimOwner      Code = "NOT_CLAIM_OWNER"

	// Dispatch errors
	CodeUnroutableCall Code = "UNROUTABLE_CALL"
)

// Scope describes how far a failure propagates.
type Scope string

const (
	// ScopeExtrinsic failures are reported and the block continues.
	ScopeExtrinsic Scope = "extrinsic"
	// ScopeBlock failures reject the whole block.
	ScopeBlock Scope = "block"
	// ScopeContract failures indicate a wiring bug, not bad input.
	ScopeContract Scope = "contract"
)

// Scope maps a code to its propagation scope.
func (c Code) Scope() Scope {
	switch c {
	case CodeBlockNumberMismatch:
		return ScopeBlock
	case CodeUnroutableCall, CodeUnknown:
		return ScopeContract
	default:
		return ScopeExtrinsic
	}
}
