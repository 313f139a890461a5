package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// CLIFormatter renders a human-readable table.
type CLIFormatter struct{}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the per-stack price table followed by validation warnings.
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	p := result.Pricing
	if p.ExchangeRatio > 0 {
		p = p.InCurrency(p.ExchangeRatio)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STACK\tDEV/HR\tAGENTIC/HR\tRELEASABLE\tFINAL PRICE")
	for _, sp := range p.Stacks {
		if sp.Dev.Empty && sp.Agentic.Empty {
			fmt.Fprintf(tw, "%s\tno employees assigned\t\t\t\n", sp.StackName)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			sp.StackName,
			money(sp.Dev.CostPerRelHour),
			money(sp.Agentic.CostPerRelHour),
			money(sp.Dev.ReleasableCost),
			money(sp.Dev.FinalPrice),
		)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "QA add-on per releasable hour\t%s\n", money(p.QA.PerDevRelHour))
	fmt.Fprintf(tw, "BA add-on per releasable hour\t%s\n", money(p.BA.PerDevRelHour))
	if err := tw.Flush(); err != nil {
		return err
	}

	r := result.Report
	if r == nil || r.Clean() {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Warnings:")
	for _, key := range r.MissingSettings {
		fmt.Fprintf(w, "  missing setting %q\n", string(key))
	}
	for _, issue := range r.InvalidAllocations {
		fmt.Fprintf(w, "  overhead %q allocation shares sum to %s, expected ~1.0\n",
			issue.Name, decimal.NewFromFloat(issue.Sum).Round(4).String())
	}
	for _, id := range r.EmployeesMissingAllocation {
		fmt.Fprintf(w, "  employee %q has no allocation for at least one active overhead type\n", string(id))
	}
	return nil
}

// money renders a nullable money value with two decimals; unpriceable values
// render as a dash rather than zero.
func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).Round(2).StringFixed(2)
}
