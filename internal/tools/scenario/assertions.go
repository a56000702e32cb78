package scenario

import (
	"fmt"
	"log"
	"strings"
)

// AssertionMode controls how failed expectations are handled.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// String returns the mode name.
func (m AssertionMode) String() string {
	if m == AssertionLogOnly {
		return "log"
	}
	return "strict"
}

// ParseAssertionMode maps "strict" or "log" to a mode.
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return AssertionStrict, nil
	case "log", "log-only", "log_only":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, fmt.Errorf("unknown assertion mode %q", value)
	}
}

// Assertions applies the assertion mode to expectation failures.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger

	logged int
}

// Assertf reports an unmet expectation. It returns an error only in strict
// mode.
func (a *Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionLogOnly {
		a.logged++
		if a.Logger != nil {
			a.Logger.Printf("expectation failed: "+format, args...)
		}
		return nil
	}
	return fmt.Errorf("expectation failed: "+format, args...)
}

// Failf reports a broken scenario. It always returns an error.
func (a *Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Logged returns how many expectation failures were logged instead of
// returned.
func (a *Assertions) Logged() int { return a.logged }
