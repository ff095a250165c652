// Package featureflags holds the switches that change record visibility.
// Each flag is read once at startup from FLAG_<NAME>.
package featureflags

import (
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Flag names a switch
type Flag string

// ScopedOffenders limits staff offender listings to offenders named in
// warnings or bans they can see.
const ScopedOffenders Flag = "scoped_offenders"

var known = []Flag{ScopedOffenders}

// Env returns the environment variable that controls f
func (f Flag) Env() string { return "FLAG_" + strings.ToUpper(string(f)) }

// Set is the resolved value of every known flag
type Set map[Flag]bool

// Load resolves every known flag through lookup. Unset flags are off.
func Load(lookup func(string) (string, bool)) Set {
	set := make(Set, len(known))
	for _, f := range known {
		v, ok := lookup(f.Env())
		set[f] = ok && parse(v)
	}
	return set
}

// FromEnv resolves the flags from the process environment
func FromEnv() Set { return Load(os.LookupEnv) }

// Enabled reports whether f is on
func (s Set) Enabled(f Flag) bool { return s[f] }

// LogValue lists the enabled flags
func (s Set) LogValue() slog.Value {
	var on []string
	for f, enabled := range s {
		if enabled {
			on = append(on, string(f))
		}
	}
	slices.Sort(on)
	return slog.StringValue(strings.Join(on, ","))
}

func parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
