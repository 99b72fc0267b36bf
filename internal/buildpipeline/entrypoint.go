package buildpipeline

import (
	"fmt"

	"tide/internal/config"
	"tide/internal/diag"
	"tide/internal/members"
	"tide/internal/naming"
)

// ValidateEntry ensures the configured entry class is declared by some input. An empty
// class disables the check; the method itself is checked by the generator.
func ValidateEntry(cfg *config.Config, table *members.Table) error {
	if cfg == nil || cfg.Entry.Class == "" {
		return nil
	}
	class := cfg.Entry.Class
	if table != nil && table.Has(naming.Parent(class), naming.Simple(class)) {
		return nil
	}
	return &config.Error{
		Field: "[entry].class",
		Code:  diag.CfgEntryNotFound,
		Msg:   fmt.Sprintf("entry class %q is not declared in any input", class),
	}
}
