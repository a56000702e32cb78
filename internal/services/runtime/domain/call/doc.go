// Package call defines the runtime call union and the registry that maps each
// call type to the pallet that owns it.
//
// Calls express caller intent inside an extrinsic. Every concrete call type is
// registered once, by its owning pallet, before any block executes; dispatch
// then routes purely on the registered owner so pallets never see calls that
// belong to someone else.
package call
