// Package sqlite journals extrinsic receipts to SQLite.
//
// The journal is a diagnostic side channel. Runtime state is never restored
// from it; each Open starts a new run so receipts from separate processes do
// not collide.
package sqlite
