// Package engine composes the pallets into a runtime and executes blocks.
//
// The runtime owns every pallet exclusively. Blocks run synchronously: the
// block number is bumped, the header is checked, then each extrinsic bumps the
// caller's nonce and is dispatched in order. Only a header mismatch fails a
// block. Extrinsic outcomes go to a Reporter side channel.
package engine
