package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/pallet"
)

// Registries holds the validated call and pallet registries used for routing.
type Registries[A any] struct {
	Calls   *call.Registry
	Pallets *pallet.Registry[A]
}

// BuildRegistries registers every pallet and its calls, then checks that the
// call set and the handler set agree. Any mismatch is a wiring bug and fails
// construction.
func BuildRegistries[A any](pallets ...pallet.Pallet[A]) (Registries[A], error) {
	if len(pallets) == 0 {
		return Registries[A]{}, ErrPalletsRequired
	}
	callRegistry := call.NewRegistry()
	palletRegistry := pallet.NewRegistry[A]()

	for _, p := range pallets {
		if err := palletRegistry.Register(p); err != nil {
			return Registries[A]{}, err
		}
		if err := p.RegisterCalls(callRegistry); err != nil {
			return Registries[A]{}, fmt.Errorf("register %s calls: %w", p.Name(), err)
		}
	}

	if err := ValidateCallOwnership(palletRegistry, callRegistry); err != nil {
		return Registries[A]{}, err
	}
	if err := ValidateHandlerCoverage(palletRegistry, callRegistry); err != nil {
		return Registries[A]{}, err
	}
	return Registries[A]{Calls: callRegistry, Pallets: palletRegistry}, nil
}

// ValidateCallOwnership verifies that every registered call names a registered
// pallet and that every pallet owns at least one call.
func ValidateCallOwnership[A any](pallets *pallet.Registry[A], calls *call.Registry) error {
	if pallets == nil || calls == nil {
		return fmt.Errorf("pallet and call registries are required for ownership validation")
	}
	owned := make(map[string]int)
	var orphaned []string
	for _, def := range calls.ListDefinitions() {
		if pallets.Get(def.Pallet) == nil {
			orphaned = append(orphaned, string(def.Type))
			continue
		}
		owned[def.Pallet]++
	}
	if len(orphaned) > 0 {
		return fmt.Errorf("calls registered for unknown pallets: %s", strings.Join(orphaned, ", "))
	}
	var idle []string
	for _, p := range pallets.List() {
		if owned[p.Name()] == 0 {
			idle = append(idle, p.Name())
		}
	}
	if len(idle) > 0 {
		return fmt.Errorf("pallets without registered calls: %s", strings.Join(idle, ", "))
	}
	return nil
}

// ValidateHandlerCoverage verifies that each pallet handles exactly the calls
// registered under its name.
func ValidateHandlerCoverage[A any](pallets *pallet.Registry[A], calls *call.Registry) error {
	if pallets == nil || calls == nil {
		return fmt.Errorf("pallet and call registries are required for handler validation")
	}
	registered := make(map[string][]call.Type)
	for _, def := range calls.ListDefinitions() {
		registered[def.Pallet] = append(registered[def.Pallet], def.Type)
	}

	var missing, unregistered []string
	for _, p := range pallets.List() {
		handled := p.HandledCalls()
		for _, t := range registered[p.Name()] {
			if !slices.Contains(handled, t) {
				missing = append(missing, string(t))
			}
		}
		for _, t := range handled {
			if def, ok := calls.Definition(t); !ok || def.Pallet != p.Name() {
				unregistered = append(unregistered, string(t))
			}
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("registered calls without handlers: %s", strings.Join(missing, ", "))
	}
	if len(unregistered) > 0 {
		slices.Sort(unregistered)
		return fmt.Errorf("handled calls not registered to their pallet: %s", strings.Join(unregistered, ", "))
	}
	return nil
}
