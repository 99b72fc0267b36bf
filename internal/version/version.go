// Package version holds build metadata of the tide CLI.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in their own colours.
// Pre-release and build suffixes stay plain.
func Colored(enabled bool) string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	colors := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	for i, c := range colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	return strings.Join(parts, ".") + suffix
}

// Info is the multi-line description printed by "tide version".
func Info(enabled bool) string {
	var sb strings.Builder
	sb.WriteString("tide ")
	sb.WriteString(Colored(enabled))
	sb.WriteString("\n")
	if GitCommit != "" {
		sb.WriteString("commit: ")
		sb.WriteString(GitCommit)
		if GitMessage != "" {
			sb.WriteString(" (")
			sb.WriteString(GitMessage)
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	if BuildDate != "" {
		sb.WriteString("built: ")
		sb.WriteString(BuildDate)
		sb.WriteString("\n")
	}
	return sb.String()
}
