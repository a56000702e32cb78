// Package block defines the unit of work the runtime executes.
package block

import "github.com/louisbranch/palletrun/internal/services/runtime/domain/call"

// Header carries the block number the producer expects the runtime to reach.
type Header[BN any] struct {
	BlockNumber BN
}

// Extrinsic is a call submitted by an account.
type Extrinsic[A any] struct {
	Caller A
	Call   call.Call
}

// Block is a header followed by extrinsics applied in order.
type Block[BN, A any] struct {
	Header     Header[BN]
	Extrinsics []Extrinsic[A]
}

// New builds a block for number with the given extrinsics.
func New[BN, A any](number BN, extrinsics ...Extrinsic[A]) Block[BN, A] {
	return Block[BN, A]{
		Header:     Header[BN]{BlockNumber: number},
		Extrinsics: extrinsics,
	}
}
