package primitives

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// Counter is the constraint for block numbers and nonces.
type Counter interface {
	constraints.Unsigned
}

// Balance is the arithmetic contract for ledger amounts.
//
// The zero value must represent zero. CheckedAdd and CheckedSub report false
// instead of wrapping, so callers can reject the operation before committing
// any write.
type Balance[B any] interface {
	comparable
	CheckedAdd(B) (B, bool)
	CheckedSub(B) (B, bool)
	IsZero() bool
	String() string
}

// CheckedInc increments a counter, reporting false when it would wrap.
func CheckedInc[N Counter](n N) (N, bool) {
	next := n + 1
	if next < n {
		return n, false
	}
	return next, true
}

// U64 is a Balance backed by a uint64.
type U64 uint64

// CheckedAdd returns u+o, or false on overflow.
func (u U64) CheckedAdd(o U64) (U64, bool) {
	sum := u + o
	if sum < u {
		return 0, false
	}
	return sum, true
}

// CheckedSub returns u-o, or false on underflow.
func (u U64) CheckedSub(o U64) (U64, bool) {
	if u < o {
		return 0, false
	}
	return u - o, true
}

// IsZero reports whether u is zero.
func (u U64) IsZero() bool { return u == 0 }

// String renders u in base 10.
func (u U64) String() string { return strconv.FormatUint(uint64(u), 10) }
