// Package cmd contains all CLI commands for custseg.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/custseg/internal/config"
	"github.com/f3rmion/custseg/internal/model"
	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
	"github.com/f3rmion/custseg/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultLogFile receives interactive logs when --verbose is set without --log-file.
const defaultLogFile = "custseg.log"

var (
	cfgFile    string
	presetFile string
	assigns    []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "custseg",
	Short: "Customer Segment Predictor - assign a customer to a marketing segment",
	Long: `custseg collects a customer's demographic and purchasing attributes and
asks a pre-trained k-means model which segment the customer belongs to.

The artifact is read from kmeans.yaml by default. Override it with --model,
CUSTSEG_MODEL or the "model" key of the config file.

Every control starts at its default; categorical fields start at their first
option (Education=Basic, Marital_Status=Single). Use --set or --preset to
start from another customer, e.g.
  custseg --set Education=Graduation --set Marital_Status=Married

Running 'custseg' without arguments launches the interactive form.`,
	SilenceUsage: true,
	RunE:         runForm,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/custseg/config.yaml)")
	rootCmd.PersistentFlags().String("model", model.DefaultPath, "segmentation model artifact (.yaml or .db)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("log-file", "", "write interactive form logs to this file")

	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	addFormFlags(rootCmd)
}

// addFormFlags registers the flags that pre-fill the form.
func addFormFlags(c *cobra.Command) {
	c.Flags().StringVar(&presetFile, "preset", "", "YAML file with initial field values")
	c.Flags().StringArrayVar(&assigns, "set", nil, "set a field, e.g. --set Income=72000 (repeatable)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.Init(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// loadModel loads the configured artifact. A load failure is reported as a
// blocking message naming the artifact, and returned so the process exits
// non-zero.
func loadModel(cfg config.Config, stderr io.Writer) (*model.KMeans, error) {
	m, err := model.Load(cfg.Model)
	if err != nil {
		var le *segment.LoadError
		if errors.As(err, &le) {
			fmt.Fprintln(stderr, loadFailure(cfg, le))
		}
		return nil, err
	}
	return m, nil
}

var (
	loadTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1a2e")).
			Background(lipgloss.Color("#ff6b6b")).
			Padding(0, 1)

	loadBodyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff6b6b")).
			Padding(0, 1)
)

func loadFailure(cfg config.Config, le *segment.LoadError) string {
	body := fmt.Sprintf("The segmentation model could not be loaded.\n\nArtifact: %s\nPath:     %s\nReason:   %v\n\nNo predictions are possible until a valid artifact is provided.\nSet --model or CUSTSEG_MODEL to its location.",
		le.Path, cfg.ModelPath(), le.Err)
	return lipgloss.JoinVertical(lipgloss.Left, loadTitleStyle.Render("❌ Model unavailable"), loadBodyStyle.Render(body))
}

// initialForm builds the form from defaults, then the preset file, then --set.
func initialForm() (record.Form, error) {
	f := record.NewForm()

	if presetFile != "" {
		p, err := record.LoadPreset(presetFile)
		if err != nil {
			return f, err
		}
		if err := p.Apply(&f); err != nil {
			return f, fmt.Errorf("applying preset %s: %w", presetFile, err)
		}
	}

	p, err := record.ParseAssignments(assigns)
	if err != nil {
		return f, err
	}
	if err := p.Apply(&f); err != nil {
		return f, fmt.Errorf("applying --set: %w", err)
	}
	return f, nil
}

// cliLogger logs to stderr for one-shot commands and the server.
func cliLogger(cfg config.Config, c *cobra.Command) *slog.Logger {
	return cfg.Logger(c.ErrOrStderr())
}

// runForm launches the interactive form.
func runForm(cmd *cobra.Command, args []string) error {
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

	// The alt screen owns stdout, so logs only go to a file.
	var logger *slog.Logger
	logPath := cfg.LogFile
	if logPath == "" && cfg.Verbose {
		logPath = defaultLogFile
	}
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "custseg")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = cfg.Logger(f)
	}

	p := tea.NewProgram(
		tui.NewApp(m, form, cfg.ModelPath(), logger),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
