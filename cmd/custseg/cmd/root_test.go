package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/custseg/internal/segment"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledModel = "../../../kmeans.yaml"

// resetFlags returns every flag of c and its subcommands to its default so
// runs do not see each other's values.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPredict_JSON(t *testing.T) {
	stdout, _, err := execute(t, "predict", "--model", bundledModel, "--format", "json", "--set", "Income=20000", "--set", "Age=150")
	require.NoError(t, err)

	var out struct {
		Segment int            `json:"segment"`
		Record  map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.GreaterOrEqual(t, out.Segment, 0)
	assert.Less(t, out.Segment, 4)
	assert.EqualValues(t, 20000, out.Record["Income"])
	assert.EqualValues(t, 100, out.Record["Age"])
}

func TestPredict_MissingModel(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "kmeans.yaml")

	_, stderr, err := execute(t, "predict", "--model", missing)

	var le *segment.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, missing, le.Path)
	assert.Contains(t, stderr, "Model unavailable")
	assert.Contains(t, stderr, missing)
}

func TestReview_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer.yaml")

	stdout, _, err := execute(t, "review", "--save", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Marital_Status")
	assert.Contains(t, stdout, "Day_Joined")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Education:")
}

func TestRoot_MissingModelHaltsBeforeForm(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "kmeans.yaml")

	stdout, stderr, err := execute(t, "--model", missing)

	var le *segment.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, missing, le.Path)
	assert.Contains(t, stderr, "Model unavailable")
	assert.Contains(t, stderr, missing)
	assert.Empty(t, stdout)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	stdout, _, err := execute(t, "review", "--set", "Age=40")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^Age\s+40$`, stdout)
	assert.Equal(t, []string{"Age=40"}, assigns)

	stdout, _, err = execute(t, "review")
	require.NoError(t, err)
	assert.Empty(t, assigns)
	assert.Regexp(t, `(?m)^Age\s+35$`, stdout)
}

func TestModel_ConvertAndInspect(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kmeans.db")

	stdout, _, err := execute(t, "model", "convert", bundledModel, db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 clusters")

	stdout, _, err = execute(t, "model", "inspect", "--model", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(sqlite)")
	assert.Contains(t, stdout, "Clusters:  4")
	assert.Contains(t, stdout, "Marital_Status")
}

func TestModel_ConvertRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "model", "convert", bundledModel, filepath.Join(t.TempDir(), "kmeans.pkl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported artifact extension")
}

func TestSchema_ListsFieldsInOrder(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 21)
	assert.Contains(t, lines[0], "Education")
	assert.Contains(t, lines[20], "Day_Joined")
}

func TestSchema_HelpExplainsCategoricalDefaults(t *testing.T) {
	stdout, _, err := execute(t, "schema", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Education=Basic")
	assert.Contains(t, stdout, "--set Education=Graduation --set Marital_Status=Married")
}
