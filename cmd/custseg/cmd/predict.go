package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
	"github.com/f3rmion/custseg/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormat string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the segment for one customer",
	Long: `Build a customer record from the defaults, an optional preset file and
--set overrides, then print the predicted segment.

Values outside a field's range are clamped; unknown fields and categories
are rejected.

Example:
  custseg predict --set Education=PhD --set Income=82000
  custseg predict --preset customer.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	addFormFlags(predictCmd)
	predictCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json or yaml")
}

type prediction struct {
	Segment *segment.Label `json:"segment,omitempty" yaml:"segment,omitempty"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
	Record  record.Record  `json:"record" yaml:"record"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	if err := checkFormat(outputFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	form, err := initialForm()
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	log := cliLogger(cfg, cmd)
	rec := form.Record()
	label, perr := segment.Predict(m, rec)

	out := prediction{Record: rec}
	if perr != nil {
		log.Warn("prediction failed", "error", perr)
		out.Error = perr.Error()
	} else {
		log.Debug("prediction", "segment", label.String())
		out.Segment = &label
	}

	if err := writePrediction(cmd.OutOrStdout(), outputFormat, out); err != nil {
		return err
	}
	return perr
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writePrediction(w io.Writer, format string, p prediction) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(w, tui.ReviewTable(p.Record))
	fmt.Fprintln(w)
	if p.Segment == nil {
		fmt.Fprintln(w, "Sorry, something went wrong during the prediction.")
		fmt.Fprintln(w, p.Error)
		return nil
	}
	fmt.Fprintf(w, "The predicted customer segment is: %s\n", p.Segment)
	return nil
}
