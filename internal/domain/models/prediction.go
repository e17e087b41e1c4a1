package models

// Prediction labels.
const (
	LabelUp   = "UP"
	LabelDown = "DOWN"
	LabelHold = "HOLD"
)

// Feature schemas a loaded classifier can expect.
const (
	SchemaTechnical = "technical"
	SchemaLegacy    = "legacy"
)

// FeatureContribution is one ranked entry of the top-contributors list.
type FeatureContribution struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight,omitempty"`
	Contribution float64 `json:"contribution"`
}

// Calibration records how the raw probability was temperature-scaled.
type Calibration struct {
	Temperature float64 `json:"temperature"`
	Applied     bool    `json:"applied"`
}

// PredictionResult is the calibrated price-direction estimate. ProbUp and
// ProbDown always sum to 1.
type PredictionResult struct {
	Symbol        string                `json:"symbol"`
	ProbUp        float64               `json:"prob_up"`
	ProbDown      float64               `json:"prob_down"`
	Label         string                `json:"label"`
	Confidence    float64               `json:"confidence"`
	Schema        string                `json:"schema,omitempty"`
	Features      map[string]float64    `json:"features,omitempty"`
	FeatureOrder  []string              `json:"feature_order,omitempty"`
	TopFeatures   []FeatureContribution `json:"top_features,omitempty"`
	Calibration   Calibration           `json:"calibration"`
	ModelLoadedAt int64                 `json:"model_loaded_at,omitempty"`
}
