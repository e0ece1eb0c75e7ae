// Package segment defines the contract between the form and a segmentation
// model: the Predictor capability, its opaque Label, and the two error kinds
// a caller must handle.
package segment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/f3rmion/custseg/internal/record"
)

// Predictor is a loaded, read-only segmentation model. Predict returns one
// label per input record, in input order.
type Predictor interface {
	Predict(records []record.Record) ([]Label, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(records []record.Record) ([]Label, error)

// Predict calls fn.
func (fn PredictorFunc) Predict(records []record.Record) ([]Label, error) {
	return fn(records)
}

// Label is the opaque segment identifier returned by a model. It may wrap an
// int, a float or a string, depending on the artifact.
type Label struct {
	value any
}

// NewLabel wraps a model output value.
func NewLabel(v any) Label {
	return Label{value: v}
}

// Value returns the wrapped value.
func (l Label) Value() any {
	return l.value
}

// String renders the label for display.
func (l Label) String() string {
	if l.value == nil {
		return ""
	}
	return fmt.Sprint(l.value)
}

// MarshalJSON encodes the wrapped value.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.value)
}

// MarshalYAML encodes the wrapped value.
func (l Label) MarshalYAML() (any, error) {
	return l.value, nil
}

// LoadError reports a model artifact that is missing, corrupt or incompatible.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading segmentation model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PredictionError reports a failure inside a predict call.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// ErrNoPrediction is returned when the model yields an empty result.
var ErrNoPrediction = errors.New("model returned no prediction")

// Predict runs p on a single record and returns the first label. Any failure,
// including a panic inside the model, comes back as a *PredictionError.
func Predict(p Predictor, rec record.Record) (label Label, err error) {
	if p == nil {
		return Label{}, &PredictionError{Err: errors.New("no model loaded")}
	}

	defer func() {
		if r := recover(); r != nil {
			label = Label{}
			err = &PredictionError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	labels, err := p.Predict([]record.Record{rec})
	if err != nil {
		return Label{}, &PredictionError{Err: err}
	}
	if len(labels) == 0 {
		return Label{}, &PredictionError{Err: ErrNoPrediction}
	}
	return labels[0], nil
}
