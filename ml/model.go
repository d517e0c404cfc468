package ml

import "errors"

var (
	ErrNotTrained   = errors.New("model not trained")
	ErrFeatureArity = errors.New("feature vector has wrong number of values")
)

// Predictor maps one feature vector to a scalar estimate.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// Regressor is a Predictor that can be fit on a column-major training set.
type Regressor interface {
	Predictor
	Fit(columns [][]float64, targets []float64) error
}
