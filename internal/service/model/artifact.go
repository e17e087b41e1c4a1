package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	dservice "EquitySight/internal/domain/service"
)

// Artifact is the exported form of a trained direction classifier: a JSON
// document carrying the linear weights and the feature order used in
// training. Tree models export importances instead of coefficients.
type Artifact struct {
	FeatureOrder []string  `json:"feature_order"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	NFeatures    int       `json:"n_features"`
	Importances  []float64 `json:"importances"`
	Temperature  float64   `json:"temperature"`

	// HardLabelsOnly marks exports whose probability head was not calibrated;
	// callers then fall back to a fixed-confidence heuristic on Predict.
	HardLabelsOnly bool `json:"hard_labels_only"`
}

// Linear implements the classifier contract on top of an Artifact.
type Linear struct {
	art Artifact
}

func LoadArtifact(path string) (*Linear, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if art.NFeatures == 0 {
		if len(art.Coef) > 0 {
			art.NFeatures = len(art.Coef)
		} else {
			art.NFeatures = len(art.FeatureOrder)
		}
	}
	if len(art.Coef) > 0 && len(art.Coef) != art.NFeatures {
		return nil, fmt.Errorf("model artifact: coef width %d != n_features %d", len(art.Coef), art.NFeatures)
	}
	return &Linear{art: art}, nil
}

func (m *Linear) NumFeatures() int { return m.art.NFeatures }

func (m *Linear) FeatureOrder() []string { return m.art.FeatureOrder }

// DefaultTemperature is the calibration baked in at export time, 1 when unset.
func (m *Linear) DefaultTemperature() float64 {
	if m.art.Temperature > 0 {
		return m.art.Temperature
	}
	return 1
}

func (m *Linear) decision(x []float64) (float64, error) {
	if len(x) != m.art.NFeatures {
		return 0, fmt.Errorf("model input width %d, want %d", len(x), m.art.NFeatures)
	}
	if len(m.art.Coef) == 0 {
		return 0, fmt.Errorf("model artifact carries no coefficients")
	}
	z := m.art.Intercept
	for i, c := range m.art.Coef {
		z += c * x[i]
	}
	return z, nil
}

func (m *Linear) Predict(x []float64) (int, error) {
	z, err := m.decision(x)
	if err != nil {
		return 0, err
	}
	if z >= 0 {
		return 1, nil
	}
	return 0, nil
}

func (m *Linear) PredictProba(x []float64) ([]float64, bool) {
	if m.art.HardLabelsOnly {
		return nil, false
	}
	z, err := m.decision(x)
	if err != nil {
		return nil, false
	}
	p := 1 / (1 + math.Exp(-z))
	return []float64{1 - p, p}, true
}

func (m *Linear) Coefficients() ([]float64, bool) {
	if len(m.art.Coef) == 0 {
		return nil, false
	}
	return m.art.Coef, true
}

func (m *Linear) Importances() ([]float64, bool) {
	if len(m.art.Importances) == 0 {
		return nil, false
	}
	return m.art.Importances, true
}

var _ dservice.Classifier = (*Linear)(nil)
