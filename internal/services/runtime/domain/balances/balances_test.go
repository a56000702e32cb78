package balances

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
)

type ledger = Pallet[string, primitives.U64]

func newLedger() *ledger { return New[string, primitives.U64]() }

func TestBalanceDefaultsToZero(t *testing.T) {
	p := newLedger()
	if got := p.Balance("nobody"); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
}

func TestSetBalanceOverwrites(t *testing.T) {
	p := newLedger()
	p.SetBalance("alice", 100)
	p.SetBalance("alice", 40)
	if got := p.Balance("alice"); got != 40 {
		t.Fatalf("balance = %d, want 40", got)
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name      string
		seed      map[string]primitives.U64
		from, to  string
		amount    primitives.U64
		wantErr   error
		wantAfter map[string]primitives.U64
	}{
		{
			name:      "moves funds",
			seed:      map[string]primitives.U64{"alice": 100},
			from:      "alice",
			to:        "bob",
			amount:    51,
			wantAfter: map[string]primitives.U64{"alice": 49, "bob": 51},
		},
		{
			name:      "exact balance",
			seed:      map[string]primitives.U64{"alice": 100, "bob": 5},
			from:      "alice",
			to:        "bob",
			amount:    100,
			wantAfter: map[string]primitives.U64{"alice": 0, "bob": 105},
		},
		{
			name:      "insufficient balance leaves both unchanged",
			seed:      map[string]primitives.U64{"alice": 100},
			from:      "alice",
			to:        "bob",
			amount:    150,
			wantErr:   ErrInsufficientBalance,
			wantAfter: map[string]primitives.U64{"alice": 100, "bob": 0},
		},
		{
			name:      "recipient overflow leaves both unchanged",
			seed:      map[string]primitives.U64{"alice": 10, "bob": math.MaxUint64},
			from:      "alice",
			to:        "bob",
			amount:    1,
			wantErr:   ErrOverflow,
			wantAfter: map[string]primitives.U64{"alice": 10, "bob": math.MaxUint64},
		},
		{
			name:      "self transfer keeps balance",
			seed:      map[string]primitives.U64{"alice": 100},
			from:      "alice",
			to:        "alice",
			amount:    60,
			wantAfter: map[string]primitives.U64{"alice": 100},
		},
		{
			name:      "self transfer above balance fails",
			seed:      map[string]primitives.U64{"alice": 100},
			from:      "alice",
			to:        "alice",
			amount:    101,
			wantErr:   ErrInsufficientBalance,
			wantAfter: map[string]primitives.U64{"alice": 100},
		},
		{
			name:      "self transfer at max does not overflow",
			seed:      map[string]primitives.U64{"alice": math.MaxUint64},
			from:      "alice",
			to:        "alice",
			amount:    math.MaxUint64,
			wantAfter: map[string]primitives.U64{"alice": math.MaxUint64},
		},
		{
			name:      "zero amount from empty account",
			from:      "alice",
			to:        "bob",
			amount:    0,
			wantAfter: map[string]primitives.U64{"alice": 0, "bob": 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newLedger()
			for account, amount := range tt.seed {
				p.SetBalance(account, amount)
			}
			err := p.Transfer(tt.from, tt.to, tt.amount)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			for account, want := range tt.wantAfter {
				if got := p.Balance(account); got != want {
					t.Errorf("%s balance = %d, want %d", account, got, want)
				}
			}
		})
	}
}

func TestTransferErrorMetadata(t *testing.T) {
	p := newLedger()
	p.SetBalance("alice", 100)
	err := p.Transfer("alice", "bob", 150)
	meta := apperrors.GetMetadata(err)
	if meta["Account"] != "alice" || meta["Balance"] != "100" || meta["Amount"] != "150" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if apperrors.GetCode(err) != apperrors.CodeInsufficientBalance {
		t.Fatalf("code = %s", apperrors.GetCode(err))
	}
}

func TestTransferConservesTotalIssuance(t *testing.T) {
	p := newLedger()
	p.SetBalance("alice", 1000)
	p.SetBalance("bob", 250)
	before, ok := p.TotalIssuance()
	if !ok {
		t.Fatal("unexpected issuance overflow")
	}

	moves := []struct {
		from, to string
		amount   primitives.U64
	}{
		{"alice", "bob", 300},
		{"bob", "carol", 500},
		{"carol", "alice", 10},
		{"bob", "bob", 20},
		{"carol", "dave", 1000}, // fails
	}
	for _, m := range moves {
		_ = p.Transfer(m.from, m.to, m.amount)
	}
	after, ok := p.TotalIssuance()
	if !ok {
		t.Fatal("unexpected issuance overflow")
	}
	if before != after {
		t.Fatalf("total issuance changed: %d -> %d", before, after)
	}
}

func TestTotalIssuanceOverflow(t *testing.T) {
	p := newLedger()
	p.SetBalance("alice", math.MaxUint64)
	p.SetBalance("bob", 1)
	if _, ok := p.TotalIssuance(); ok {
		t.Fatal("expected issuance overflow")
	}
}

func TestDispatchTransfer(t *testing.T) {
	p := newLedger()
	p.SetBalance("alice", 10)
	err := p.Dispatch("alice", Transfer[string, primitives.U64]{To: "bob", Amount: 4})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if p.Balance("alice") != 6 || p.Balance("bob") != 4 {
		t.Fatalf("balances alice=%d bob=%d", p.Balance("alice"), p.Balance("bob"))
	}
}

func TestRegisterCalls(t *testing.T) {
	p := newLedger()
	registry := call.NewRegistry()
	if err := p.RegisterCalls(registry); err != nil {
		t.Fatalf("register calls: %v", err)
	}
	def, ok := registry.Definition(CallTransfer)
	if !ok || def.Pallet != Name {
		t.Fatalf("transfer definition = %+v, %v", def, ok)
	}
	handled := p.HandledCalls()
	if len(handled) != 1 || handled[0] != CallTransfer {
		t.Fatalf("HandledCalls = %v", handled)
	}
}

func TestTransferU256(t *testing.T) {
	p := New[string, primitives.U256]()
	p.SetBalance("alice", primitives.NewU256(200000))
	p.SetBalance("bob", primitives.MaxU256())

	if err := p.Transfer("alice", "carol", primitives.NewU256(50000)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := p.Balance("alice"); got != primitives.NewU256(150000) {
		t.Fatalf("alice = %s, want 150000", got)
	}
	if err := p.Transfer("alice", "bob", primitives.NewU256(1)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if got := p.Balance("alice"); got != primitives.NewU256(150000) {
		t.Fatalf("alice changed after failed transfer: %s", got)
	}
}
