package habit

import (
	"fmt"
	"strings"
)

// Rollover selects what happens to the logged flag when the day changes.
type Rollover int

const (
	// RolloverManual keeps a day logged until Reset is called.
	RolloverManual Rollover = iota

	// RolloverDaily clears the logged flag on the first call made on a later
	// calendar day, and clears the week when a new Sunday-based week starts.
	RolloverDaily
)

// String returns the flag spelling of the policy.
func (r Rollover) String() string {
	switch r {
	case RolloverManual:
		return "manual"
	case RolloverDaily:
		return "daily"
	default:
		return fmt.Sprintf("rollover(%d)", int(r))
	}
}

// ParseRollover parses "manual" or "daily" (case-insensitive).
func ParseRollover(s string) (Rollover, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return RolloverManual, nil
	case "daily":
		return RolloverDaily, nil
	default:
		return RolloverManual, fmt.Errorf("invalid rollover policy: %s", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so the policy can be
// parsed straight from an environment variable.
func (r *Rollover) UnmarshalText(text []byte) error {
	parsed, err := ParseRollover(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
