package ml

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarises regression quality on a labeled set.
type Metrics struct {
	R2   float64 `json:"r2"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	Rows int     `json:"rows"`
}

// Evaluate predicts every row of ds and compares against its targets.
func Evaluate(model Predictor, ds *Dataset) (Metrics, error) {
	n := ds.Len()
	if n == 0 {
		return Metrics{}, errors.New("evaluation set is empty")
	}
	estimates := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := model.Predict(ds.Row(i))
		if err != nil {
			return Metrics{}, err
		}
		estimates[i] = v
	}

	m := Metrics{
		MAE:  floats.Distance(estimates, ds.Targets, 1) / float64(n),
		RMSE: floats.Distance(estimates, ds.Targets, 2) / math.Sqrt(float64(n)),
		Rows: n,
	}
	if n > 1 {
		m.R2 = stat.RSquaredFrom(estimates, ds.Targets, nil)
	}
	// constant targets have no variance to explain
	if math.IsNaN(m.R2) || math.IsInf(m.R2, 0) {
		m.R2 = 0
	}
	return m, nil
}
