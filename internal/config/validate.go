package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"tide/internal/diag"
)

// Error is a configuration problem. It is fatal for the whole run.
type Error struct {
	Path  string // file the setting came from, "" for inline or CLI settings
	Field string // offending setting, e.g. "[runtime].name"
	Code  diag.Code
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// AsError unwraps err into a configuration error if it is one.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func withPath(err error, path string) error {
	if ce, ok := AsError(err); ok && ce.Path == "" {
		cp := *ce
		cp.Path = path
		return &cp
	}
	return err
}

const maxIndent = 16

// Validate checks required fields, value ranges and pattern syntax.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Project.Name) == "" {
		return &Error{Field: "[project].name", Code: diag.CfgMissingField, Msg: "missing required field"}
	}
	if strings.TrimSpace(c.Runtime.Name) == "" {
		return &Error{Field: "[runtime].name", Code: diag.CfgMissingField, Msg: "must not be empty"}
	}
	if strings.TrimSpace(c.Runtime.Require) == "" {
		return &Error{Field: "[runtime].require", Code: diag.CfgMissingField, Msg: "must not be empty"}
	}
	if c.Pipeline.Indent < 1 || c.Pipeline.Indent > maxIndent {
		return &Error{
			Field: "[pipeline].indent",
			Code:  diag.CfgBadIndentWidth,
			Msg:   fmt.Sprintf("must be between 1 and %d, got %d", maxIndent, c.Pipeline.Indent),
		}
	}
	if c.Entry.Class != "" && strings.TrimSpace(c.Entry.Method) == "" {
		return &Error{Field: "[entry].method", Code: diag.CfgMissingField, Msg: "required when [entry].class is set"}
	}
	for _, name := range c.Pipeline.Passes {
		if strings.TrimSpace(name) == "" {
			return &Error{Field: "[pipeline].passes", Code: diag.CfgUnknownPass, Msg: "empty pass name"}
		}
	}
	if _, err := CompilePatterns("[debug].console", c.Debug.Console); err != nil {
		return err
	}
	if _, err := CompilePatterns("[debug].severity", c.Debug.Severity); err != nil {
		return err
	}
	for name, directive := range c.Attributes {
		if strings.TrimSpace(directive) == "" {
			return &Error{Field: fmt.Sprintf("[attributes].%q", name), Code: diag.CfgInvalid, Msg: "empty directive"}
		}
	}
	return nil
}

// CompilePatterns compiles call-origin patterns. field names the setting in errors.
func CompilePatterns(field string, patterns []string) ([]*regexp2.Regexp, error) {
	out := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, &Error{Field: field, Code: diag.CfgBadPattern, Msg: fmt.Sprintf("invalid pattern %q: %v", p, err), Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

func parseEntry(s, defMethod string) EntryConfig {
	class, method, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || method == "" {
		method = defMethod
	}
	return EntryConfig{Class: class, Method: method}
}
