package record_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantNames = []string{
	"Education", "Marital_Status", "Income", "Recency",
	"MntWines", "MntFruits", "MntMeatProducts", "MntFishProducts", "MntSweetProducts", "MntGoldProds",
	"NumDealsPurchases", "NumWebPurchases", "NumCatalogPurchases", "NumStorePurchases", "NumWebVisitsMonth",
	"Complain", "Response", "Age", "Money_Spent", "Children", "Day_Joined",
}

func TestNames_MatchFeatureSchema(t *testing.T) {
	assert.Equal(t, wantNames, record.Names())

	cols := record.NewForm().Record().Columns()
	require.Len(t, cols, 21)
	for i, c := range cols {
		assert.Equal(t, wantNames[i], c.Name)
	}
}

func TestForm_DefaultsScenario(t *testing.T) {
	f := record.NewForm()
	require.NoError(t, f.SetText("Education", "Graduation"))
	require.NoError(t, f.SetText("Marital_Status", "Married"))

	want := []any{
		"Graduation", "Married", 50000, 30,
		50, 10, 30, 10, 5, 10,
		2, 3, 1, 2, 5,
		0, 0, 35, 500, 1, 100,
	}

	cols := f.Record().Columns()
	require.Len(t, cols, len(want))
	for i, c := range cols {
		assert.Equal(t, want[i], c.Value, c.Name)
	}
}

func TestForm_DefaultCategoricalIsFirstOption(t *testing.T) {
	r := record.NewForm().Record()
	assert.Equal(t, "Basic", r.Education)
	assert.Equal(t, "Single", r.MaritalStatus)
}

func TestForm_ValuesStayInDomain(t *testing.T) {
	probes := []int{-1 << 20, -1, 0, 1, 17, 18, 366, 1000, 1001, 200001, 1 << 20}

	for i, fd := range record.Fields() {
		for _, v := range probes {
			f := record.NewForm()
			f.Set(i, v)
			assertInDomain(t, fd, f, i)

			for _, n := range []int{-1000, -10, -1, 1, 10, 1000} {
				f.Step(i, n)
				assertInDomain(t, fd, f, i)
			}
		}
	}
}

func assertInDomain(t *testing.T, fd record.Field, f record.Form, i int) {
	t.Helper()

	col := f.Record().Columns()[i]
	switch fd.Kind {
	case record.KindCategorical:
		assert.Contains(t, fd.Options, col.Value, fd.Name)
	default:
		v, ok := col.Value.(int)
		require.True(t, ok, fd.Name)
		assert.GreaterOrEqual(t, v, fd.Min, fd.Name)
		assert.LessOrEqual(t, v, fd.Max, fd.Name)
	}
}

func TestForm_StepWrapsSelects(t *testing.T) {
	f := record.NewForm()
	f.Step(record.Education, -1)
	assert.Equal(t, "2n Cycle", f.Record().Education)
	f.Step(record.Education, 1)
	assert.Equal(t, "Basic", f.Record().Education)

	f.Step(record.Complain, 1)
	assert.Equal(t, 1, f.Record().Complain)
	f.Step(record.Complain, 1)
	assert.Equal(t, 0, f.Record().Complain)
}

func TestForm_StepUsesFieldIncrement(t *testing.T) {
	f := record.NewForm()
	f.Step(record.Income, 1)
	assert.Equal(t, 51000, f.Record().Income)
	f.Step(record.Income, 1000)
	assert.Equal(t, 200000, f.Record().Income)
}

func TestForm_RecordIsDeterministic(t *testing.T) {
	a := record.NewForm()
	b := record.NewForm()
	for _, f := range []*record.Form{&a, &b} {
		f.Step(record.Age, 7)
		require.NoError(t, f.SetText("Marital_Status", "Widow"))
		require.NoError(t, f.SetText("Income", "72000"))
	}
	assert.Equal(t, a.Record(), b.Record())
	assert.Equal(t, a.Record(), a.Record())
}

func TestForm_SetText(t *testing.T) {
	f := record.NewForm()

	require.NoError(t, f.SetText("Income", "999999"))
	assert.Equal(t, 200000, f.Record().Income)

	require.NoError(t, f.SetText("Age", " 3 "))
	assert.Equal(t, 18, f.Record().Age)

	assert.Error(t, f.SetText("Education", "graduation"))
	assert.Error(t, f.SetText("Income", "lots"))
	assert.Error(t, f.SetText("Salary", "1"))
}

func TestPreset_LoadAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Education: PhD\nIncome: 81000\nChildren: 9\n"), 0644))

	p, err := record.LoadPreset(path)
	require.NoError(t, err)

	f := record.NewForm()
	require.NoError(t, p.Apply(&f))

	r := f.Record()
	assert.Equal(t, "PhD", r.Education)
	assert.Equal(t, 81000, r.Income)
	assert.Equal(t, 5, r.Children)
}

func TestPreset_RejectsUnknownField(t *testing.T) {
	p, err := record.ParseAssignments([]string{"Pets=2"})
	require.NoError(t, err)

	f := record.NewForm()
	assert.ErrorContains(t, p.Apply(&f), "unknown field")
}

func TestParseAssignments(t *testing.T) {
	p, err := record.ParseAssignments([]string{"Education=2n Cycle", "Age=40"})
	require.NoError(t, err)
	assert.Equal(t, record.Preset{"Education": "2n Cycle", "Age": "40"}, p)

	_, err = record.ParseAssignments([]string{"Age"})
	assert.Error(t, err)
}

func TestRecord_SaveRoundTrip(t *testing.T) {
	f := record.NewForm()
	f.Step(record.MntWines, 25)
	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, f.Record().Save(path))

	p, err := record.LoadPreset(path)
	require.NoError(t, err)
	g := record.NewForm()
	require.NoError(t, p.Apply(&g))
	assert.Equal(t, f.Record(), g.Record())
}
