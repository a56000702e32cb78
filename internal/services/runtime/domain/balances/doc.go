// Package balances implements the account ledger pallet.
//
// Balances only change through SetBalance (administrative, outside dispatch)
// and Transfer (dispatchable). Transfer conserves the total issuance: both new
// balances are computed with checked arithmetic before either is written.
package balances
