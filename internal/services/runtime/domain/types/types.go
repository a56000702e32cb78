// Package types pins the concrete primitive types of the runtime.
package types

import (
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/balances"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/block"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/proofofexistence"
)

type (
	AccountID   = string
	BlockNumber = uint32
	Nonce       = uint32
	Balance     = primitives.U256
	Content     = string
)

// Runtime is the runtime instantiated with the concrete types.
type Runtime = engine.Runtime[AccountID, BlockNumber, Nonce, Balance, Content]

type (
	Block     = block.Block[BlockNumber, AccountID]
	Extrinsic = block.Extrinsic[AccountID]
	Snapshot  = engine.Snapshot[AccountID, BlockNumber, Nonce, Balance, Content]

	Transfer    = balances.Transfer[AccountID, Balance]
	CreateClaim = proofofexistence.CreateClaim[Content]
	RevokeClaim = proofofexistence.RevokeClaim[Content]
)

// NewRuntime returns an empty runtime.
func NewRuntime(opts ...engine.Option) (*Runtime, error) {
	return engine.New[AccountID, BlockNumber, Nonce, Balance, Content](opts...)
}

// NewBlock builds a block with the given header number.
func NewBlock(number BlockNumber, extrinsics ...Extrinsic) Block {
	return block.New(number, extrinsics...)
}
