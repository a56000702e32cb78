// Package system tracks the block height and per-account nonces.
package system

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
)

// Name is the pallet name.
const Name = "system"

// Pallet holds the chain-wide bookkeeping counters. It has no dispatchable
// calls; the block executor drives it directly.
type Pallet[A cmp.Ordered, BN, N primitives.Counter] struct {
	blockNumber BN
	nonces      map[A]N
}

// New returns a pallet at block 0 with no nonces.
func New[A cmp.Ordered, BN, N primitives.Counter]() *Pallet[A, BN, N] {
	return &Pallet[A, BN, N]{nonces: make(map[A]N)}
}

// Name returns the pallet name.
func (p *Pallet[A, BN, N]) Name() string { return Name }

// BlockNumber returns the current block number.
func (p *Pallet[A, BN, N]) BlockNumber() BN {
	return p.blockNumber
}

// IncBlockNumber advances the block number by one. It panics if the counter
// would wrap.
func (p *Pallet[A, BN, N]) IncBlockNumber() {
	next, ok := primitives.CheckedInc(p.blockNumber)
	if !ok {
		panic(fmt.Sprintf("system: block number overflow at %v", p.blockNumber))
	}
	p.blockNumber = next
}

// Nonce returns the account's nonce, 0 if it never called anything.
func (p *Pallet[A, BN, N]) Nonce(account A) N {
	return p.nonces[account]
}

// IncNonce advances the account's nonce by one.
func (p *Pallet[A, BN, N]) IncNonce(account A) {
	current := p.nonces[account]
	next, ok := primitives.CheckedInc(current)
	if !ok {
		panic(fmt.Sprintf("system: nonce overflow for %v", account))
	}
	p.nonces[account] = next
}

// Accounts returns every account with a nonce, sorted.
func (p *Pallet[A, BN, N]) Accounts() []A {
	return slices.Sorted(maps.Keys(p.nonces))
}
