// Package pallet defines the contract every dispatchable state module
// implements, the registry that aggregates them, and the router that forwards
// calls to their owner.
package pallet
