package balances

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/pallet"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
)

// Name is the pallet name and call type prefix.
const Name = "balances"

// CallTransfer moves funds from the caller to another account.
const CallTransfer call.Type = "balances.transfer"

var (
	// ErrInsufficientBalance matches a transfer larger than the caller's balance.
	ErrInsufficientBalance = apperrors.New(apperrors.CodeInsufficientBalance, "insufficient balance")
	// ErrOverflow matches a transfer that would overflow the recipient's balance.
	ErrOverflow = apperrors.New(apperrors.CodeBalanceOverflow, "balance overflow")
)

// Transfer is the balances.transfer call.
type Transfer[A any, B any] struct {
	To     A
	Amount B
}

// CallType implements call.Call.
func (Transfer[A, B]) CallType() call.Type { return CallTransfer }

// Pallet is the balances ledger.
type Pallet[A cmp.Ordered, B primitives.Balance[B]] struct {
	balances map[A]B
	router   *pallet.CallRouter[A]
}

// New returns an empty ledger.
func New[A cmp.Ordered, B primitives.Balance[B]]() *Pallet[A, B] {
	p := &Pallet[A, B]{balances: make(map[A]B)}
	p.router = pallet.NewCallRouter[A]()
	pallet.HandleCall(p.router, func(caller A, c Transfer[A, B]) error {
		return p.Transfer(caller, c.To, c.Amount)
	})
	return p
}

// Name returns the pallet name.
func (p *Pallet[A, B]) Name() string { return Name }

// RegisterCalls registers the balances calls.
func (p *Pallet[A, B]) RegisterCalls(registry *call.Registry) error {
	for _, t := range p.router.HandledCalls() {
		if err := registry.Register(call.Definition{Type: t, Pallet: Name}); err != nil {
			return err
		}
	}
	return nil
}

// HandledCalls returns the call types Dispatch accepts.
func (p *Pallet[A, B]) HandledCalls() []call.Type { return p.router.HandledCalls() }

// Dispatch applies a balances call on behalf of caller.
func (p *Pallet[A, B]) Dispatch(caller A, c call.Call) error {
	return p.router.Dispatch(caller, c)
}

// SetBalance overwrites an account's balance.
func (p *Pallet[A, B]) SetBalance(account A, amount B) {
	p.balances[account] = amount
}

// Balance returns the account's balance, zero if unknown.
func (p *Pallet[A, B]) Balance(account A) B {
	return p.balances[account]
}

// Transfer moves amount from caller to to. Nothing is written unless both
// sides can be updated.
func (p *Pallet[A, B]) Transfer(caller, to A, amount B) error {
	callerBalance := p.Balance(caller)
	newCallerBalance, ok := callerBalance.CheckedSub(amount)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeInsufficientBalance,
			fmt.Sprintf("insufficient balance: %v has %s, needs %s", caller, callerBalance, amount),
			map[string]string{
				"Account": fmt.Sprint(caller),
				"Balance": callerBalance.String(),
				"Amount":  amount.String(),
			})
	}
	if caller == to {
		return nil
	}
	toBalance := p.Balance(to)
	newToBalance, ok := toBalance.CheckedAdd(amount)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeBalanceOverflow,
			fmt.Sprintf("balance overflow crediting %v", to),
			map[string]string{
				"Account": fmt.Sprint(to),
				"Balance": toBalance.String(),
				"Amount":  amount.String(),
			})
	}
	p.balances[caller] = newCallerBalance
	p.balances[to] = newToBalance
	return nil
}

// Accounts returns every account with a stored balance, sorted.
func (p *Pallet[A, B]) Accounts() []A {
	return slices.Sorted(maps.Keys(p.balances))
}

// TotalIssuance sums every balance. It reports false if the sum does not fit
// in B, which only administrative seeding can cause.
func (p *Pallet[A, B]) TotalIssuance() (B, bool) {
	var total B
	for _, account := range p.Accounts() {
		next, ok := total.CheckedAdd(p.balances[account])
		if !ok {
			return total, false
		}
		total = next
	}
	return total, true
}
