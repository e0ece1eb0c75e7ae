package cmd

import (
	"fmt"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the customer record fields",
	Long: `List every field the model expects, in order, with its domain and default.

Categorical fields default to their first option (Education=Basic,
Marital_Status=Single). The reference customer used in the docs sets them
explicitly:

  custseg predict --set Education=Graduation --set Marital_Status=Married`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	defaults := record.NewForm()

	nameWidth := 0
	for _, name := range record.Names() {
		nameWidth = max(nameWidth, runewidth.StringWidth(name))
	}

	for i, fd := range record.Fields() {
		fmt.Fprintf(w, "%2d  %s  %-12s %-34s default %s\n",
			i+1, runewidth.FillRight(fd.Name, nameWidth), fd.Kind, fd.Domain(), defaults.Text(i))
	}
	return nil
}
