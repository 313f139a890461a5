// Package output renders evaluation results for humans and machines. All
// rounding happens here and only here; the engine's floats arrive unrounded
// and the optional secondary-currency conversion is applied as a final
// display transform.
package output

import (
	"io"

	"teamrate/core/pricing"
	"teamrate/core/validate"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result bundles what the formatters render.
type Result struct {
	Pricing *pricing.Result  `json:"pricing"`
	Report  *validate.Report `json:"validation"`
}

// ForFormat returns the formatter for a format name, defaulting to CLI.
func ForFormat(f Format) Formatter {
	if f == FormatJSON {
		return &JSONFormatter{}
	}
	return &CLIFormatter{}
}
