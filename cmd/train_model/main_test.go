package main

import (
	"strings"
	"testing"
	"time"

	"hpcpredict/ml"
)

func TestReport(t *testing.T) {
	out := report(ml.ModelInfo{
		NEstimators: 100,
		Seed:        42,
		TrainRows:   700,
		TestRows:    300,
		Duration:    2 * time.Second,
		Holdout:     &ml.Metrics{R2: 0.91234, MAE: 1.5, RMSE: 2.25},
	})
	for _, want := range []string{"trees=100", "train_rows=700", "test_rows=300", "r2=0.9123", "rmse=2.2500"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportWithoutHoldout(t *testing.T) {
	if out := report(ml.ModelInfo{TrainRows: 1}); !strings.Contains(out, "no holdout rows") {
		t.Fatalf("unexpected report: %s", out)
	}
}
