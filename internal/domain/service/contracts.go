package service

// Classifier is a linear or tree model exported as a serialized artifact.
// Inputs are dense float vectors in the model's declared feature order.
type Classifier interface {
	NumFeatures() int
	// Predict returns the hard class label (0 = down, 1 = up).
	Predict(x []float64) (int, error)
	// PredictProba returns [probDown, probUp] when the artifact carries
	// calibrated probabilities. ok is false for hard-label-only models.
	PredictProba(x []float64) (probs []float64, ok bool)
	// Coefficients returns per-feature linear weights when available.
	Coefficients() ([]float64, bool)
	// Importances returns per-feature importance scores when available.
	Importances() ([]float64, bool)
}
