// Package model loads k-means segmentation artifacts and predicts the nearest
// cluster for customer records.
package model

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/f3rmion/custseg/internal/record"
	"github.com/f3rmion/custseg/internal/segment"
)

// KMeans is a trained k-means model over the customer feature schema.
type KMeans struct {
	Features  []string                      `yaml:"features"`         // Column names, in training order
	Encodings map[string]map[string]float64 `yaml:"encodings"`        // Ordinal codes for categorical columns
	Scaler    *Scaler                       `yaml:"scaler,omitempty"` // Optional standardization applied before distance
	Centroids [][]float64                   `yaml:"centroids"`        // One row per cluster
	Labels    []any                         `yaml:"labels,omitempty"` // Optional label per cluster; index otherwise
}

// Scaler standardizes each feature as (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

// Validate checks that the model matches the record schema and is internally
// consistent.
func (m *KMeans) Validate() error {
	want := record.Names()
	if !slices.Equal(m.Features, want) {
		return fmt.Errorf("feature schema mismatch: artifact has %v, form produces %v", m.Features, want)
	}

	for _, f := range record.Fields() {
		if f.Kind != record.KindCategorical {
			continue
		}
		codes := m.Encodings[f.Name]
		if len(codes) == 0 {
			return fmt.Errorf("no encoding for categorical feature %s", f.Name)
		}
		for _, opt := range f.Options {
			code, ok := codes[opt]
			if !ok {
				return fmt.Errorf("no encoding for %s=%q", f.Name, opt)
			}
			if !finite(code) {
				return fmt.Errorf("encoding for %s=%q is not finite", f.Name, opt)
			}
		}
	}

	if len(m.Centroids) == 0 {
		return errors.New("model has no centroids")
	}
	for i, c := range m.Centroids {
		if len(c) != len(m.Features) {
			return fmt.Errorf("centroid %d has %d dimensions, want %d", i, len(c), len(m.Features))
		}
		for j, v := range c {
			if !finite(v) {
				return fmt.Errorf("centroid %d has non-finite value %v for %s", i, v, m.Features[j])
			}
		}
	}

	if m.Scaler != nil {
		if len(m.Scaler.Mean) != len(m.Features) || len(m.Scaler.Scale) != len(m.Features) {
			return fmt.Errorf("scaler has %d means and %d scales, want %d", len(m.Scaler.Mean), len(m.Scaler.Scale), len(m.Features))
		}
		for i, s := range m.Scaler.Scale {
			if s == 0 {
				return fmt.Errorf("scaler scale for %s is zero", m.Features[i])
			}
			if !finite(s) || !finite(m.Scaler.Mean[i]) {
				return fmt.Errorf("scaler for %s is not finite", m.Features[i])
			}
		}
	}

	if len(m.Labels) > 0 && len(m.Labels) != len(m.Centroids) {
		return fmt.Errorf("model has %d labels for %d clusters", len(m.Labels), len(m.Centroids))
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// K returns the number of clusters.
func (m *KMeans) K() int {
	return len(m.Centroids)
}

// Predict assigns each record to its nearest centroid.
func (m *KMeans) Predict(records []record.Record) ([]segment.Label, error) {
	labels := make([]segment.Label, 0, len(records))
	for _, r := range records {
		x, err := m.vector(r)
		if err != nil {
			return nil, err
		}
		labels = append(labels, m.label(m.nearest(x)))
	}
	return labels, nil
}

// vector encodes and scales a record into feature space.
func (m *KMeans) vector(r record.Record) ([]float64, error) {
	cols := r.Columns()
	x := make([]float64, len(cols))
	for i, c := range cols {
		switch v := c.Value.(type) {
		case string:
			code, ok := m.Encodings[c.Name][v]
			if !ok {
				return nil, fmt.Errorf("unknown category %q for feature %s", v, c.Name)
			}
			x[i] = code
		case int:
			x[i] = float64(v)
		default:
			return nil, fmt.Errorf("unsupported value type %T for feature %s", c.Value, c.Name)
		}
		if m.Scaler != nil {
			x[i] = (x[i] - m.Scaler.Mean[i]) / m.Scaler.Scale[i]
		}
	}
	return x, nil
}

// nearest returns the index of the closest centroid. Ties go to the lowest index.
func (m *KMeans) nearest(x []float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range m.Centroids {
		var d float64
		for j := range c {
			diff := x[j] - c[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (m *KMeans) label(cluster int) segment.Label {
	if len(m.Labels) > 0 {
		return segment.NewLabel(m.Labels[cluster])
	}
	return segment.NewLabel(cluster)
}
