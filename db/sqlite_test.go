package db

import (
	"path/filepath"
	"testing"
	"time"

	"hpcpredict/ml"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "training.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndQueryTrainingRuns(t *testing.T) {
	store := openTestStore(t)

	trainedAt := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := RunFromInfo(ml.ModelInfo{
			ModelName:   "random_forest",
			NEstimators: 100,
			Seed:        int64(42 + i),
			TrainRows:   700,
			TestRows:    300,
			Holdout:     &ml.Metrics{R2: 0.9, MAE: 1.2, RMSE: 2.4},
			Duration:    1500 * time.Millisecond,
			TrainedAt:   trainedAt,
		})
		if _, err := store.SaveTrainingRun(run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	runs, err := store.RecentTrainingRuns(2)
	if err != nil {
		t.Fatalf("query runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	latest := runs[0]
	if latest.Seed != 44 {
		t.Fatalf("expected newest run first, got seed %d", latest.Seed)
	}
	if latest.R2 != 0.9 || latest.RMSE != 2.4 || latest.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected run: %+v", latest)
	}
	if !latest.TrainedAt.Equal(trainedAt) {
		t.Fatalf("expected trained_at %v, got %v", trainedAt, latest.TrainedAt)
	}
}

func TestRunFromInfoWithoutHoldout(t *testing.T) {
	run := RunFromInfo(ml.ModelInfo{ModelName: "random_forest", TrainRows: 1})
	if run.R2 != 0 || run.MAE != 0 {
		t.Fatalf("expected zero metrics, got %+v", run)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
