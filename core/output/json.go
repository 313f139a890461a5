package output

import (
	"io"

	json "github.com/goccy/go-json"
)

// JSONFormatter renders machine-readable JSON. The secondary-currency
// transform applies here too, so both formats agree on what they show.
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the result as indented JSON.
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	out := *result
	if p := result.Pricing; p != nil && p.ExchangeRatio > 0 {
		out.Pricing = p.InCurrency(p.ExchangeRatio)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}
