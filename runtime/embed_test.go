package runtimeembed

import (
	"strings"
	"testing"
)

// Every entry point the generator emits must exist in the shipped runtime.
func TestRuntimeContract(t *testing.T) {
	src := string(Source())
	for _, want := range []string{
		"function CS.namespace(",
		"function CS.class(",
		"function Namespace:namespace(",
		"function Namespace:class(",
		"function CS.classDef(",
		"function CS.classInstance(",
		"function CS.super(",
		"function CS.getAssemblyType(",
		"function CS.is(",
		`Namespace["$getMember"]`,
		`Namespace["$onLoaded"]`,
		"return CS",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("runtime is missing %q", want)
		}
	}
}

func TestSourceIsCopy(t *testing.T) {
	a := Source()
	a[0] = 'x'
	if Source()[0] == 'x' {
		t.Fatalf("Source must return a copy")
	}
}
