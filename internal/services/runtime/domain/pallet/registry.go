package pallet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
)

var (
	// ErrNameRequired indicates a missing pallet name.
	ErrNameRequired = errors.New("pallet name is required")
	// ErrAlreadyRegistered indicates a duplicate pallet registration.
	ErrAlreadyRegistered = errors.New("pallet already registered")
	// ErrRegistryRequired indicates a missing registry.
	ErrRegistryRequired = errors.New("registry is required")
	// ErrPalletRequired indicates a nil pallet.
	ErrPalletRequired = errors.New("pallet is required")
)

// Pallet is a dispatchable state module.
//
// A pallet owns its state privately; the only way block execution reaches that
// state is through Dispatch with a call the pallet registered itself.
type Pallet[A any] interface {
	Name() string
	RegisterCalls(registry *call.Registry) error
	// HandledCalls returns every call type Dispatch accepts. The engine checks
	// it against the call registry at construction.
	HandledCalls() []call.Type
	Dispatch(caller A, c call.Call) error
}

// Registry manages registered pallets for one account type.
type Registry[A any] struct {
	mu      sync.RWMutex
	pallets map[string]Pallet[A]
}

// NewRegistry creates a new pallet registry.
func NewRegistry[A any]() *Registry[A] {
	return &Registry[A]{
		pallets: make(map[string]Pallet[A]),
	}
}

// Register adds a pallet to the registry.
func (r *Registry[A]) Register(p Pallet[A]) error {
	if r == nil {
		return ErrRegistryRequired
	}
	if p == nil {
		return ErrPalletRequired
	}
	name := strings.TrimSpace(p.Name())
	if name == "" {
		return ErrNameRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pallets == nil {
		r.pallets = make(map[string]Pallet[A])
	}
	if _, exists := r.pallets[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	r.pallets[name] = p
	return nil
}

// Get returns the pallet registered under name.
func (r *Registry[A]) Get(name string) Pallet[A] {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pallets[strings.TrimSpace(name)]
}

// List returns all registered pallets ordered by name.
func (r *Registry[A]) List() []Pallet[A] {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pallets := make([]Pallet[A], 0, len(r.pallets))
	for _, p := range r.pallets {
		pallets = append(pallets, p)
	}
	sort.Slice(pallets, func(i, j int) bool {
		return pallets[i].Name() < pallets[j].Name()
	})
	return pallets
}
