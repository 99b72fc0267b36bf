// Package scenario extracts end-to-end compiler cases from markdown files.
//
// A case starts at a heading "Test: <name>" and is followed by fenced blocks:
//
//	tree     the bound-tree document (JSON), required
//	config   a tide.toml fragment applied over the defaults, optional
//	lua      the expected output text
//	error    the expected diagnostic code of a failed file, e.g. GEN3003
//	warning  a diagnostic code that must be reported while the file still succeeds
//
// Every case needs a tree and exactly one of lua or error.
package scenario

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence is a recognized code fence language.
type Fence string

const (
	FenceTree    Fence = "tree"
	FenceConfig  Fence = "config"
	FenceLua     Fence = "lua"
	FenceError   Fence = "error"
	FenceWarning Fence = "warning"
)

// Case is one scenario.
type Case struct {
	Name     string
	Line     int // line of the heading
	Tree     string
	Config   string
	Lua      string
	Error    string
	Warnings []string
}

// Extract parses a markdown document into cases.
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var cur *Case
	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := validate(cur); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, source)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)
			if cur == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
				}
				return ast.WalkContinue, nil
			}
			content := strings.TrimRight(blockContent(n, source), "\n")
			if err := cur.set(Fence(lang), content, line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return cases, nil
}

func (c *Case) set(f Fence, content string, line int) error {
	var dst *string
	switch f {
	case FenceTree:
		dst = &c.Tree
	case FenceConfig:
		dst = &c.Config
	case FenceLua:
		dst = &c.Lua
	case FenceError:
		dst = &c.Error
	case FenceWarning:
		c.Warnings = append(c.Warnings, strings.TrimSpace(content))
		return nil
	case "":
		return nil
	default:
		return fmt.Errorf("line %d: unknown fence %q in test %q", line, f, c.Name)
	}
	if *dst != "" {
		return fmt.Errorf("line %d: second %s fence in test %q", line, f, c.Name)
	}
	*dst = content
	if f == FenceError {
		*dst = strings.TrimSpace(content)
	}
	return nil
}

func validate(c *Case) error {
	if c.Tree == "" {
		return fmt.Errorf("test %q (line %d) has no tree fence", c.Name, c.Line)
	}
	if (c.Lua == "") == (c.Error == "") {
		return fmt.Errorf("test %q (line %d) needs exactly one of lua or error", c.Name, c.Line)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the first content line of node.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
