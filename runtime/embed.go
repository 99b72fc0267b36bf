// Package runtimeembed ships the reference implementation of the runtime module that
// generated code requires.
package runtimeembed

import (
	"bytes"
	_ "embed"
)

// FileName is the name written by "tide runtime".
const FileName = "Runtime.lua"

//go:embed Runtime.lua
var runtimeLua []byte

// Source returns a copy of the runtime module text.
func Source() []byte {
	return bytes.Clone(runtimeLua)
}
