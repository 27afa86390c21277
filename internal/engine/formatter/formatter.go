// Package formatter handles formatting conflict check results for CLI, JSON, and SARIF output.
package formatter

import (
	"github.com/irahardianto/mergescout/internal/engine/detect"
)

// Formatter renders a detection result into a human-readable or
// machine-readable string.
type Formatter interface {
	Format(result *detect.Result) string
}
