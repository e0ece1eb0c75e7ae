package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/f3rmion/custseg/internal/model"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Work with segmentation model artifacts",
	Long:  `Commands for inspecting and converting k-means model artifacts.`,
}

var modelInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the configured model artifact",
	Long: `Load the configured artifact, check it against the customer record schema
and print a summary of its clusters, encodings and scaler.

Example:
  custseg model inspect --model segments.db`,
	Args: cobra.NoArgs,
	RunE: runModelInspect,
}

var modelConvertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert an artifact between YAML and SQLite",
	Long: `Read a validated artifact and write it in the format implied by the output
extension (.yaml/.yml or .db/.sqlite/.sqlite3).

Example:
  custseg model convert kmeans.yaml kmeans.db`,
	Args: cobra.ExactArgs(2),
	RunE: runModelConvert,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelInspectCmd)
	modelCmd.AddCommand(modelConvertCmd)
}

func runModelInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format, _ := model.FormatOf(cfg.Model)
	fmt.Fprintf(w, "Artifact:  %s (%s)\n", cfg.ModelPath(), format)
	fmt.Fprintf(w, "Features:  %d\n", len(m.Features))
	fmt.Fprintf(w, "Clusters:  %d\n", m.K())
	if m.Scaler != nil {
		fmt.Fprintln(w, "Scaler:    standard")
	} else {
		fmt.Fprintln(w, "Scaler:    none")
	}

	fmt.Fprintln(w, "\nEncodings:")
	names := make([]string, 0, len(m.Encodings))
	for name := range m.Encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		codes := m.Encodings[name]
		cats := make([]string, 0, len(codes))
		for cat := range codes {
			cats = append(cats, cat)
		}
		sort.Slice(cats, func(i, j int) bool { return codes[cats[i]] < codes[cats[j]] })
		for i, cat := range cats {
			cats[i] = fmt.Sprintf("%s=%g", cat, codes[cat])
		}
		fmt.Fprintf(w, "  %-15s %s\n", name, strings.Join(cats, ", "))
	}

	fmt.Fprintln(w, "\nSegments:")
	for i := 0; i < m.K(); i++ {
		label := fmt.Sprint(i)
		if len(m.Labels) > 0 {
			label = fmt.Sprint(m.Labels[i])
		}
		fmt.Fprintf(w, "  cluster %d -> %s\n", i, label)
	}
	return nil
}

func runModelConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	if filepath.Clean(in) == filepath.Clean(out) {
		return fmt.Errorf("input and output are the same file: %s", in)
	}
	if _, err := model.FormatOf(out); err != nil {
		return err
	}

	m, err := model.Load(in)
	if err != nil {
		return err
	}
	if err := model.Save(out, m); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s (%d clusters)\n", in, out, m.K())
	return nil
}
