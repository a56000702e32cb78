package call

import (
	"errors"
	"testing"
)

func TestTypePallet(t *testing.T) {
	tests := map[Type]string{
		"balances.transfer":               "balances",
		"proof_of_existence.create_claim": "proof_of_existence",
		"nodot":                           "",
		".leading":                        "",
	}
	for typ, want := range tests {
		if got := typ.Pallet(); got != want {
			t.Errorf("Type(%q).Pallet() = %q, want %q", typ, got, want)
		}
	}
}

func TestRegistryRegister(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr error
	}{
		{name: "missing type", def: Definition{Pallet: "balances"}, wantErr: ErrTypeRequired},
		{name: "missing pallet", def: Definition{Type: "balances.transfer"}, wantErr: ErrPalletRequired},
		{name: "wrong prefix", def: Definition{Type: "claims.create", Pallet: "balances"}, wantErr: ErrTypePrefix},
		{name: "ok", def: Definition{Type: " balances.transfer ", Pallet: "balances"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			err := registry.Register(tt.def)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	registry := NewRegistry()
	def := Definition{Type: "balances.transfer", Pallet: "balances"}
	if err := registry.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(def); !errors.Is(err, ErrTypeAlreadyRegistered) {
		t.Fatalf("expected ErrTypeAlreadyRegistered, got %v", err)
	}
}

func TestRegistryNilSafety(t *testing.T) {
	var registry *Registry
	if err := registry.Register(Definition{Type: "a.b", Pallet: "a"}); err == nil {
		t.Fatal("expected error on nil registry")
	}
	if _, ok := registry.Definition("a.b"); ok {
		t.Fatal("expected no definition on nil registry")
	}
	if defs := registry.ListDefinitions(); defs != nil {
		t.Fatalf("expected nil definitions, got %v", defs)
	}
}

func TestRegistryListDefinitionsSorted(t *testing.T) {
	registry := NewRegistry()
	for _, def := range []Definition{
		{Type: "proof_of_existence.revoke_claim", Pallet: "proof_of_existence"},
		{Type: "balances.transfer", Pallet: "balances"},
		{Type: "proof_of_existence.create_claim", Pallet: "proof_of_existence"},
	} {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Type, err)
		}
	}
	defs := registry.ListDefinitions()
	want := []Type{"balances.transfer", "proof_of_existence.create_claim", "proof_of_existence.revoke_claim"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d definitions, got %d", len(want), len(defs))
	}
	for i, def := range defs {
		if def.Type != want[i] {
			t.Fatalf("definition %d = %s, want %s", i, def.Type, want[i])
		}
	}
	if def, ok := registry.Definition(" balances.transfer "); !ok || def.Pallet != "balances" {
		t.Fatalf("Definition lookup = %+v, %v", def, ok)
	}
}
