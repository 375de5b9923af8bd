package casetrend

import (
	"io"
	"time"

	"github.com/casetrend/casetrend/growth"
	"github.com/goccy/go-json"
)

// Model is the serializable representation of a fitted estimator: the
// options, the anchored state, and the span of the series it was derived
// from. It is enough to forecast with, without re-reading the raw counts.
type Model struct {
	Options    *Options     `json:"options"`
	State      growth.State `json:"state"`
	CurrentStd float64      `json:"current_std"`
	FirstDate  time.Time    `json:"first_date"`
	Anchor     time.Time    `json:"anchor"`
}

// Model returns the estimator's serializable state.
func (e *Estimator) Model() Model {
	var first time.Time
	if e.series != nil {
		first = e.series.StartDate()
	}
	return Model{
		Options:    e.opt,
		State:      e.state,
		CurrentStd: e.currentStd,
		FirstDate:  first,
		Anchor:     e.anchor,
	}
}

// NewFromModel restores an estimator from a previously serialized model. The
// restored instance can Predict, ForecastRange, and DateToThreshold, but
// holds no raw or smoothed series.
func NewFromModel(m Model) (*Estimator, error) {
	if m.Options == nil {
		return nil, ErrNoModelOptions
	}
	if err := m.Options.valid(); err != nil {
		return nil, err
	}
	return &Estimator{
		opt:        m.Options,
		anchor:     m.Anchor,
		state:      m.State,
		currentStd: m.CurrentStd,
	}, nil
}

// WriteJSON serializes the model for the persistence collaborator.
func (m Model) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadModelJSON restores a model serialized by WriteJSON.
func ReadModelJSON(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, err
	}
	return m, nil
}
