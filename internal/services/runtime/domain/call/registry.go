package call

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTypeRequired indicates a missing call type.
	ErrTypeRequired = errors.New("call type is required")
	// ErrPalletRequired indicates a definition without an owning pallet.
	ErrPalletRequired = errors.New("call pallet is required")
	// ErrTypePrefix indicates a call type not namespaced by its pallet.
	ErrTypePrefix = errors.New("call type must be prefixed by its pallet name")
	// ErrTypeAlreadyRegistered indicates a duplicate call type.
	ErrTypeAlreadyRegistered = errors.New("call type already registered")
)

// Type identifies a call as "<pallet>.<name>".
type Type string

// Pallet returns the pallet prefix of the type.
func (t Type) Pallet() string {
	name, _, ok := strings.Cut(string(t), ".")
	if !ok {
		return ""
	}
	return name
}

// Call is the runtime-level call union. Each pallet contributes its variants
// as concrete structs.
type Call interface {
	CallType() Type
}

// Definition registers metadata for a call type.
type Definition struct {
	Type   Type
	Pallet string
}

// Registry stores call definitions.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new call type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	def.Pallet = strings.TrimSpace(def.Pallet)
	if def.Pallet == "" {
		return ErrPalletRequired
	}
	if def.Type.Pallet() != def.Pallet {
		return fmt.Errorf("%w: %s (pallet %s)", ErrTypePrefix, def.Type, def.Pallet)
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("%w: %s", ErrTypeAlreadyRegistered, def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition returns the call definition for a given type.
func (r *Registry) Definition(callType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	callType = Type(strings.TrimSpace(string(callType)))
	if callType == "" {
		return Definition{}, false
	}
	def, ok := r.definitions[callType]
	return def, ok
}

// ListDefinitions returns a stable, sorted snapshot of registered definitions.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return string(definitions[i].Type) < string(definitions[j].Type)
	})
	return definitions
}
