package cmd

import (
	"fmt"

	"github.com/f3rmion/custseg/internal/tui"
	"github.com/spf13/cobra"
)

var saveFile string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Print the assembled customer record without predicting",
	Long: `Print the record that would be sent to the model, one field per line in
schema order. No model is loaded.

Use --save to write the record as a preset file for later runs.

Example:
  custseg review --set Marital_Status=Single --save single.yaml`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	addFormFlags(reviewCmd)
	reviewCmd.Flags().StringVar(&saveFile, "save", "", "write the record to this preset file")
}

func runReview(cmd *cobra.Command, args []string) error {
	form, err := initialForm()
	if err != nil {
		return err
	}

	rec := form.Record()
	fmt.Fprintln(cmd.OutOrStdout(), tui.ReviewTable(rec))

	if saveFile != "" {
		if err := rec.Save(saveFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved preset to %s\n", saveFile)
	}
	return nil
}
