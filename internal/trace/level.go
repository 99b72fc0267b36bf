package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // failed spans only
	LevelPhase               // driver + pass boundaries
	LevelDetail              // per-file events
	LevelDebug               // everything including declarations
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers build-wide stages: load, members, order, write.
	ScopeDriver Scope = iota + 1
	// ScopePass covers transform passes and generation of one file.
	ScopePass
	// ScopeFile covers per-file work inside the driver.
	ScopeFile
	ScopeNode // declaration level, debug only
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeNode:
		return "node"
	}
	return "unknown"
}

// keeps reports whether an event of scope passes the level filter. Failed span ends
// are kept at every level above off.
func (l Level) keeps(scope Scope, failed bool) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return failed
	case LevelPhase:
		return failed || scope <= ScopePass
	case LevelDetail:
		return failed || scope <= ScopeFile
	}
	return true
}
