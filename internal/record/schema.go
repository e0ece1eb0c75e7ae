// Package record defines the customer record fed to the segmentation model
// and the bounded form state it is assembled from.
package record

import (
	"strconv"
	"strings"
)

// Kind describes how a field's value is represented.
type Kind string

const (
	KindCategorical Kind = "categorical" // Closed set of strings
	KindInteger     Kind = "integer"     // Bounded integer
	KindFlag        Kind = "flag"        // Boolean stored as 0 or 1
)

// Control is the input control used to edit a field.
type Control string

const (
	ControlSelect Control = "select" // Cycles through a closed set
	ControlSlider Control = "slider" // Steps between min and max
	ControlNumber Control = "number" // Slider that also accepts typed digits
)

// Field describes one column of a CustomerRecord.
type Field struct {
	Name    string   `yaml:"name" json:"name"`                           // Column name the model was trained on
	Label   string   `yaml:"label" json:"label"`                         // Human readable control label
	Kind    Kind     `yaml:"kind" json:"kind"`                           // categorical, integer, flag
	Control Control  `yaml:"control" json:"control"`                     // select, slider, number
	Min     int      `yaml:"min" json:"min"`                             // Inclusive lower bound (numeric kinds)
	Max     int      `yaml:"max" json:"max"`                             // Inclusive upper bound (numeric kinds)
	Step    int      `yaml:"step" json:"step"`                           // Increment for one control step
	Default int      `yaml:"default" json:"default"`                     // Default value, or option index for categorical
	Options []string `yaml:"options,omitempty" json:"options,omitempty"` // Allowed values (categorical only)
}

// Field indexes, in schema order.
const (
	Education = iota
	MaritalStatus
	Income
	Recency
	MntWines
	MntFruits
	MntMeatProducts
	MntFishProducts
	MntSweetProducts
	MntGoldProds
	NumDealsPurchases
	NumWebPurchases
	NumCatalogPurchases
	NumStorePurchases
	NumWebVisitsMonth
	Complain
	Response
	Age
	MoneySpent
	Children
	DayJoined

	NumFields
)

var schema = [NumFields]Field{
	Education:           {Name: "Education", Label: "Education Level", Kind: KindCategorical, Control: ControlSelect, Step: 1, Options: []string{"Basic", "Graduation", "Master", "PhD", "2n Cycle"}},
	MaritalStatus:       {Name: "Marital_Status", Label: "Marital Status", Kind: KindCategorical, Control: ControlSelect, Step: 1, Options: []string{"Single", "Together", "Married", "Divorced", "Widow"}},
	Income:              {Name: "Income", Label: "Annual Income (in USD)", Kind: KindInteger, Control: ControlNumber, Min: 0, Max: 200000, Step: 1000, Default: 50000},
	Recency:             slider("Recency", "Recency (days since last purchase)", 0, 100, 30),
	MntWines:            slider("MntWines", "Amount Spent on Wine", 0, 1000, 50),
	MntFruits:           slider("MntFruits", "Amount Spent on Fruits", 0, 1000, 10),
	MntMeatProducts:     slider("MntMeatProducts", "Amount Spent on Meat Products", 0, 1000, 30),
	MntFishProducts:     slider("MntFishProducts", "Amount Spent on Fish Products", 0, 1000, 10),
	MntSweetProducts:    slider("MntSweetProducts", "Amount Spent on Sweet Products", 0, 1000, 5),
	MntGoldProds:        slider("MntGoldProds", "Amount Spent on Gold Products", 0, 1000, 10),
	NumDealsPurchases:   slider("NumDealsPurchases", "Number of Deal Purchases", 0, 15, 2),
	NumWebPurchases:     slider("NumWebPurchases", "Web Purchases", 0, 15, 3),
	NumCatalogPurchases: slider("NumCatalogPurchases", "Catalog Purchases", 0, 15, 1),
	NumStorePurchases:   slider("NumStorePurchases", "Store Purchases", 0, 15, 2),
	NumWebVisitsMonth:   slider("NumWebVisitsMonth", "Website Visits per Month", 0, 20, 5),
	Complain:            {Name: "Complain", Label: "Filed a Complaint?", Kind: KindFlag, Control: ControlSelect, Min: 0, Max: 1, Step: 1},
	Response:            {Name: "Response", Label: "Responded to Last Campaign?", Kind: KindFlag, Control: ControlSelect, Min: 0, Max: 1, Step: 1},
	Age:                 slider("Age", "Age", 18, 100, 35),
	MoneySpent:          slider("Money_Spent", "Total Money Spent", 0, 10000, 500),
	Children:            slider("Children", "Number of Children", 0, 5, 1),
	DayJoined:           slider("Day_Joined", "Day of the Year Joined", 1, 365, 100),
}

func slider(name, label string, min, max, def int) Field {
	return Field{Name: name, Label: label, Kind: KindInteger, Control: ControlSlider, Min: min, Max: max, Step: 1, Default: def}
}

var byName = func() map[string]int {
	m := make(map[string]int, NumFields)
	for i, f := range schema {
		m[f.Name] = i
	}
	return m
}()

// Fields returns a copy of the schema in column order.
func Fields() []Field {
	out := make([]Field, NumFields)
	for i, f := range schema {
		f.Options = append([]string(nil), f.Options...)
		out[i] = f
	}
	return out
}

// FieldAt returns the field at index i.
func FieldAt(i int) Field {
	return schema[i]
}

// Names returns the column names in schema order.
func Names() []string {
	names := make([]string, NumFields)
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the index of the named field.
func Lookup(name string) (int, bool) {
	i, ok := byName[name]
	return i, ok
}

// Lower returns the smallest stored value for the field.
func (f Field) Lower() int {
	if f.Kind == KindCategorical {
		return 0
	}
	return f.Min
}

// Upper returns the largest stored value for the field.
func (f Field) Upper() int {
	if f.Kind == KindCategorical {
		return len(f.Options) - 1
	}
	return f.Max
}

// Clamp pins v into the field's domain.
func (f Field) Clamp(v int) int {
	if lo := f.Lower(); v < lo {
		return lo
	}
	if hi := f.Upper(); v > hi {
		return hi
	}
	return v
}

// Domain renders the field's domain for help and schema listings.
func (f Field) Domain() string {
	switch f.Kind {
	case KindCategorical:
		return "{" + strings.Join(f.Options, ", ") + "}"
	case KindFlag:
		return "{0, 1}"
	default:
		return "[" + strconv.Itoa(f.Min) + ", " + strconv.Itoa(f.Max) + "]"
	}
}
