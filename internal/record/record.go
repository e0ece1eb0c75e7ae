package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one customer row, named and ordered exactly as the model's feature schema.
type Record struct {
	Education           string `yaml:"Education" json:"Education"`
	MaritalStatus       string `yaml:"Marital_Status" json:"Marital_Status"`
	Income              int    `yaml:"Income" json:"Income"`
	Recency             int    `yaml:"Recency" json:"Recency"`
	MntWines            int    `yaml:"MntWines" json:"MntWines"`
	MntFruits           int    `yaml:"MntFruits" json:"MntFruits"`
	MntMeatProducts     int    `yaml:"MntMeatProducts" json:"MntMeatProducts"`
	MntFishProducts     int    `yaml:"MntFishProducts" json:"MntFishProducts"`
	MntSweetProducts    int    `yaml:"MntSweetProducts" json:"MntSweetProducts"`
	MntGoldProds        int    `yaml:"MntGoldProds" json:"MntGoldProds"`
	NumDealsPurchases   int    `yaml:"NumDealsPurchases" json:"NumDealsPurchases"`
	NumWebPurchases     int    `yaml:"NumWebPurchases" json:"NumWebPurchases"`
	NumCatalogPurchases int    `yaml:"NumCatalogPurchases" json:"NumCatalogPurchases"`
	NumStorePurchases   int    `yaml:"NumStorePurchases" json:"NumStorePurchases"`
	NumWebVisitsMonth   int    `yaml:"NumWebVisitsMonth" json:"NumWebVisitsMonth"`
	Complain            int    `yaml:"Complain" json:"Complain"`
	Response            int    `yaml:"Response" json:"Response"`
	Age                 int    `yaml:"Age" json:"Age"`
	MoneySpent          int    `yaml:"Money_Spent" json:"Money_Spent"`
	Children            int    `yaml:"Children" json:"Children"`
	DayJoined           int    `yaml:"Day_Joined" json:"Day_Joined"`
}

// Column is one (field, value) pair of the transposed record.
// Value is a string for categorical fields and an int otherwise.
type Column struct {
	Name  string
	Value any
}

// Columns returns the record transposed into schema order.
func (r Record) Columns() []Column {
	return []Column{
		{"Education", r.Education},
		{"Marital_Status", r.MaritalStatus},
		{"Income", r.Income},
		{"Recency", r.Recency},
		{"MntWines", r.MntWines},
		{"MntFruits", r.MntFruits},
		{"MntMeatProducts", r.MntMeatProducts},
		{"MntFishProducts", r.MntFishProducts},
		{"MntSweetProducts", r.MntSweetProducts},
		{"MntGoldProds", r.MntGoldProds},
		{"NumDealsPurchases", r.NumDealsPurchases},
		{"NumWebPurchases", r.NumWebPurchases},
		{"NumCatalogPurchases", r.NumCatalogPurchases},
		{"NumStorePurchases", r.NumStorePurchases},
		{"NumWebVisitsMonth", r.NumWebVisitsMonth},
		{"Complain", r.Complain},
		{"Response", r.Response},
		{"Age", r.Age},
		{"Money_Spent", r.MoneySpent},
		{"Children", r.Children},
		{"Day_Joined", r.DayJoined},
	}
}

// Form holds the current value of every control. Numeric fields store their
// value, categorical fields store the selected option index. Every write is
// clamped, so a Form can never hold an out-of-domain value.
type Form struct {
	vals [NumFields]int
}

// NewForm returns a form with every control at its default.
func NewForm() Form {
	var f Form
	f.Reset()
	return f
}

// Reset restores every control to its default.
func (f *Form) Reset() {
	for i, fd := range schema {
		f.vals[i] = fd.Clamp(fd.Default)
	}
}

// Raw returns the stored value of control i.
func (f Form) Raw(i int) int {
	return f.vals[i]
}

// Set stores v into control i, clamped to the field's domain.
func (f *Form) Set(i, v int) {
	f.vals[i] = schema[i].Clamp(v)
}

// Step moves control i by n steps. Selects wrap around; numeric controls clamp.
func (f *Form) Step(i, n int) {
	fd := schema[i]
	if fd.Control == ControlSelect {
		size := fd.Upper() - fd.Lower() + 1
		f.vals[i] = fd.Lower() + ((f.vals[i]-fd.Lower()+n)%size+size)%size
		return
	}
	f.Set(i, f.vals[i]+n*fd.Step)
}

// SetText sets a control from its textual value. Categorical values must match
// an option exactly; numeric values are parsed and clamped.
func (f *Form) SetText(name, text string) error {
	i, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	fd := schema[i]
	text = strings.TrimSpace(text)

	if fd.Kind == KindCategorical {
		for idx, opt := range fd.Options {
			if opt == text {
				f.vals[i] = idx
				return nil
			}
		}
		return fmt.Errorf("%s: %q is not one of %s", name, text, fd.Domain())
	}

	v, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", name, text)
	}
	f.Set(i, v)
	return nil
}

// Text returns the display value of control i.
func (f Form) Text(i int) string {
	fd := schema[i]
	if fd.Kind == KindCategorical {
		return fd.Options[f.vals[i]]
	}
	return strconv.Itoa(f.vals[i])
}

// Record assembles the current control values into a record.
func (f Form) Record() Record {
	v := f.vals
	return Record{
		Education:           schema[Education].Options[v[Education]],
		MaritalStatus:       schema[MaritalStatus].Options[v[MaritalStatus]],
		Income:              v[Income],
		Recency:             v[Recency],
		MntWines:            v[MntWines],
		MntFruits:           v[MntFruits],
		MntMeatProducts:     v[MntMeatProducts],
		MntFishProducts:     v[MntFishProducts],
		MntSweetProducts:    v[MntSweetProducts],
		MntGoldProds:        v[MntGoldProds],
		NumDealsPurchases:   v[NumDealsPurchases],
		NumWebPurchases:     v[NumWebPurchases],
		NumCatalogPurchases: v[NumCatalogPurchases],
		NumStorePurchases:   v[NumStorePurchases],
		NumWebVisitsMonth:   v[NumWebVisitsMonth],
		Complain:            v[Complain],
		Response:            v[Response],
		Age:                 v[Age],
		MoneySpent:          v[MoneySpent],
		Children:            v[Children],
		DayJoined:           v[DayJoined],
	}
}
