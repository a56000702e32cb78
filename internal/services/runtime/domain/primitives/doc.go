// Package primitives defines the scalar types every pallet is parameterized
// over and the checked arithmetic the ledger relies on.
//
// The runtime configuration is expressed as type parameters: account ids and
// claim contents are cmp.Ordered, block numbers and nonces are unsigned
// integers, and balances implement Balance so that wide integers such as U256
// can be used where a machine word is too small.
package primitives
