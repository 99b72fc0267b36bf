// Package naming holds identifier helpers shared by the member table, the passes and the
// generator: qualified-name arithmetic, target-safe identifiers and qualification trimming.
package naming

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Qualify joins the non-empty parts with dots.
func Qualify(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

// Split returns the segments of a qualified name; "" yields nil.
func Split(q string) []string {
	if q == "" {
		return nil
	}
	return strings.Split(q, ".")
}

// Simple returns the last segment of q without generic arity ("List`1" -> "List")
// or type argument list ("List<int>" -> "List").
func Simple(q string) string {
	q = stripGeneric(q)
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[i+1:]
	}
	return q
}

// Parent returns q without its last segment.
func Parent(q string) string {
	q = stripGeneric(q)
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[:i]
	}
	return ""
}

func stripGeneric(q string) string {
	if i := strings.IndexByte(q, '<'); i >= 0 {
		q = q[:i]
	}
	if i := strings.IndexByte(q, '`'); i >= 0 {
		q = q[:i]
	}
	return q
}

// IsUnder reports whether q equals prefix or lies beneath it.
func IsUnder(q, prefix string) bool {
	if prefix == "" {
		return true
	}
	return q == prefix || strings.HasPrefix(q, prefix+".")
}

var reserved = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {}, "end": {},
	"false": {}, "for": {}, "function": {}, "goto": {}, "if": {}, "in": {},
	"local": {}, "nil": {}, "not": {}, "or": {}, "repeat": {}, "return": {},
	"then": {}, "true": {}, "until": {}, "while": {},
}

// IsReserved reports target-language keywords.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Ident turns an input identifier into a valid target identifier. Names are NFC
// normalized; runes outside ASCII become _uXXXX; keywords get a trailing underscore;
// the "@" verbatim prefix is dropped.
func Ident(name string) string {
	name = strings.TrimPrefix(name, "@")
	if !isASCII(name) {
		name = norm.NFC.String(name)
	}
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r < utf8.RuneSelf:
			sb.WriteByte('_')
		default:
			fmt.Fprintf(&sb, "_u%04X", r)
		}
	}
	out := sb.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if IsReserved(out) {
		out += "_"
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NoQualification is the set of qualified prefixes whose references are emitted
// with trailing names only.
type NoQualification struct {
	prefixes []string // longest first
}

// NewNoQualification builds the set; empty entries are ignored.
func NewNoQualification(entries []string) NoQualification {
	prefixes := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e != "" && !slices.Contains(prefixes, e) {
			prefixes = append(prefixes, e)
		}
	}
	slices.SortFunc(prefixes, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return NoQualification{prefixes: prefixes}
}

// Match returns the longest entry q falls under.
func (n NoQualification) Match(q string) (string, bool) {
	q = stripGeneric(q)
	for _, p := range n.prefixes {
		if IsUnder(q, p) {
			return p, true
		}
	}
	return "", false
}

// Contains reports whether q falls under any entry.
func (n NoQualification) Contains(q string) bool {
	_, ok := n.Match(q)
	return ok
}

// Trim drops the matched prefix from q. A name equal to an entry keeps its simple name.
// "Roblox.Enum.KeyCode" under "Roblox" becomes "Enum.KeyCode".
func (n NoQualification) Trim(q string) (string, bool) {
	p, ok := n.Match(q)
	if !ok {
		return q, false
	}
	q = stripGeneric(q)
	if q == p {
		return Simple(q), true
	}
	return q[len(p)+1:], true
}
