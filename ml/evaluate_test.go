package ml

import (
	"math"
	"strings"
	"testing"
)

type constPredictor float64

func (c constPredictor) Predict(features []float64) (float64, error) {
	return float64(c), nil
}

func TestEvaluate(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(header +
		"1,0,0,0,0,0,0,0,0,0,1\n" +
		"2,0,0,0,0,0,0,0,0,0,3\n"))
	if err != nil {
		t.Fatal(err)
	}

	metrics, err := Evaluate(constPredictor(2), ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(metrics.MAE-1) > 1e-12 {
		t.Fatalf("expected MAE 1, got %v", metrics.MAE)
	}
	if math.Abs(metrics.RMSE-1) > 1e-12 {
		t.Fatalf("expected RMSE 1, got %v", metrics.RMSE)
	}
	if math.Abs(metrics.R2) > 1e-12 {
		t.Fatalf("expected R2 0 for a mean predictor, got %v", metrics.R2)
	}
	if metrics.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", metrics.Rows)
	}
}

func TestEvaluateConstantTargets(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(header +
		"1,0,0,0,0,0,0,0,0,0,5\n" +
		"2,0,0,0,0,0,0,0,0,0,5\n"))
	if err != nil {
		t.Fatal(err)
	}
	metrics, err := Evaluate(constPredictor(5), ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.R2 != 0 {
		t.Fatalf("expected R2 0, got %v", metrics.R2)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, err := Evaluate(constPredictor(0), &Dataset{}); err == nil {
		t.Fatal("expected error for empty evaluation set")
	}
}
