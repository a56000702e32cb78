package primitives

import (
	"fmt"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit unsigned Balance. The zero value is zero and values are
// comparable with ==, so U256 can be used as a map value and type argument.
type U256 struct {
	v uint256.Int
}

// NewU256 returns a U256 holding n.
func NewU256(n uint64) U256 {
	var u U256
	u.v.SetUint64(n)
	return u
}

// MaxU256 returns 2^256-1.
func MaxU256() U256 {
	var u U256
	u.v.SetAllOne()
	return u
}

// ParseU256 parses a base 10 string.
func ParseU256(s string) (U256, error) {
	parsed, err := uint256.FromDecimal(s)
	if err != nil {
		return U256{}, fmt.Errorf("parse u256 %q: %w", s, err)
	}
	return U256{v: *parsed}, nil
}

// CheckedAdd returns u+o, or false on overflow.
func (u U256) CheckedAdd(o U256) (U256, bool) {
	var out U256
	if _, overflow := out.v.AddOverflow(&u.v, &o.v); overflow {
		return U256{}, false
	}
	return out, true
}

// CheckedSub returns u-o, or false on underflow.
func (u U256) CheckedSub(o U256) (U256, bool) {
	var out U256
	if _, underflow := out.v.SubOverflow(&u.v, &o.v); underflow {
		return U256{}, false
	}
	return out, true
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool { return u.v.IsZero() }

// Uint64 returns the low 64 bits and whether the value fits in them.
func (u U256) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

// String renders u in base 10.
func (u U256) String() string { return u.v.Dec() }
