package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// scenariosCmd represents the scenarios command
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the named what-if scenarios",
	RunE:  runScenarios,
}

func init() {
	scenariosCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON snapshot file instead of the database")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	if len(snap.Scenarios) == 0 {
		fmt.Println("no scenarios defined")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, sc := range snap.Scenarios {
		fmt.Fprintf(w, "%s\t%s\n", sc.ID, sc.Name)
	}
	return w.Flush()
}
