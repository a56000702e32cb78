// Package proofofexistence records which account claimed a piece of content.
package proofofexistence

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/pallet"
)

// Name is the pallet name and call type prefix.
const Name = "proof_of_existence"

const (
	// CallCreateClaim claims unclaimed content for the caller.
	CallCreateClaim call.Type = "proof_of_existence.create_claim"
	// CallRevokeClaim releases content the caller owns.
	CallRevokeClaim call.Type = "proof_of_existence.revoke_claim"
)

var (
	// ErrClaimAlreadyExists is returned when the content already has an owner.
	ErrClaimAlreadyExists = apperrors.New(apperrors.CodeClaimAlreadyExists, "claim already exists")
	// ErrClaimNotExists is returned when revoking unclaimed content.
	ErrClaimNotExists = apperrors.New(apperrors.CodeClaimNotExists, "claim does not exist")
	// ErrNotClaimOwner is returned when someone other than the owner revokes.
	ErrNotClaimOwner = apperrors.New(apperrors.CodeNotClaimOwner, "caller is not the claim owner")
)

// CreateClaim is the proof_of_existence.create_claim call.
type CreateClaim[C any] struct {
	Claim C
}

// CallType implements call.Call.
func (CreateClaim[C]) CallType() call.Type { return CallCreateClaim }

// RevokeClaim is the proof_of_existence.revoke_claim call.
type RevokeClaim[C any] struct {
	Claim C
}

// CallType implements call.Call.
func (RevokeClaim[C]) CallType() call.Type { return CallRevokeClaim }

// Pallet maps content to the account that claimed it.
type Pallet[A, C cmp.Ordered] struct {
	claims map[C]A
	router *pallet.CallRouter[A]
}

// New returns a pallet with no claims.
func New[A, C cmp.Ordered]() *Pallet[A, C] {
	p := &Pallet[A, C]{claims: make(map[C]A)}
	p.router = pallet.NewCallRouter[A]()
	pallet.HandleCall(p.router, func(caller A, c CreateClaim[C]) error {
		return p.CreateClaim(caller, c.Claim)
	})
	pallet.HandleCall(p.router, func(caller A, c RevokeClaim[C]) error {
		return p.RevokeClaim(caller, c.Claim)
	})
	return p
}

// Name returns the pallet name.
func (p *Pallet[A, C]) Name() string { return Name }

// RegisterCalls registers the claim calls.
func (p *Pallet[A, C]) RegisterCalls(registry *call.Registry) error {
	for _, t := range p.router.HandledCalls() {
		if err := registry.Register(call.Definition{Type: t, Pallet: Name}); err != nil {
			return err
		}
	}
	return nil
}

// HandledCalls returns the call types Dispatch accepts.
func (p *Pallet[A, C]) HandledCalls() []call.Type { return p.router.HandledCalls() }

// Dispatch applies a claim call on behalf of caller.
func (p *Pallet[A, C]) Dispatch(caller A, c call.Call) error {
	return p.router.Dispatch(caller, c)
}

// GetClaim returns the owner of claim, if any.
func (p *Pallet[A, C]) GetClaim(claim C) (A, bool) {
	owner, ok := p.claims[claim]
	return owner, ok
}

// CreateClaim records caller as the owner of claim.
func (p *Pallet[A, C]) CreateClaim(caller A, claim C) error {
	if owner, ok := p.claims[claim]; ok {
		return apperrors.WithMetadata(apperrors.CodeClaimAlreadyExists,
			fmt.Sprintf("claim %v already owned by %v", claim, owner),
			map[string]string{"Account": fmt.Sprint(owner)})
	}
	p.claims[claim] = caller
	return nil
}

// RevokeClaim removes claim if caller owns it.
func (p *Pallet[A, C]) RevokeClaim(caller A, claim C) error {
	owner, ok := p.claims[claim]
	if !ok {
		return apperrors.New(apperrors.CodeClaimNotExists, fmt.Sprintf("claim %v does not exist", claim))
	}
	if owner != caller {
		return apperrors.WithMetadata(apperrors.CodeNotClaimOwner,
			fmt.Sprintf("%v cannot revoke claim %v owned by %v", caller, claim, owner),
			map[string]string{"Account": fmt.Sprint(caller)})
	}
	delete(p.claims, claim)
	return nil
}

// Claims returns every claimed content value, sorted.
func (p *Pallet[A, C]) Claims() []C {
	return slices.Sorted(maps.Keys(p.claims))
}
