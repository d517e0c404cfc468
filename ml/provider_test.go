package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewModelProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hpc.csv")
	if err := os.WriteFile(path, []byte(syntheticCSV(60)), 0o600); err != nil {
		t.Fatal(err)
	}

	provider, err := NewModelProvider(TrainingConfig{DatasetPath: path, Seed: 42, NEstimators: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info := provider.Info()
	if info.TrainRows != 42 || info.TestRows != 18 {
		t.Fatalf("unexpected split: train=%d test=%d", info.TrainRows, info.TestRows)
	}
	if info.NEstimators != 10 {
		t.Fatalf("expected 10 trees, got %d", info.NEstimators)
	}
	if info.Holdout == nil || info.Holdout.Rows != 18 {
		t.Fatalf("expected holdout metrics over 18 rows, got %+v", info.Holdout)
	}

	features := []float64{50000, 528, 16, 16, 128, 5000, 2, 1e12, 30, 16}
	first, err := provider.Predict(features)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := provider.Predict(features)
	if first != second {
		t.Fatalf("expected identical predictions, got %v and %v", first, second)
	}

	if _, err := provider.Predict(features[:9]); !errors.Is(err, ErrFeatureArity) {
		t.Fatalf("expected ErrFeatureArity, got %v", err)
	}
}

func TestNewModelProviderReproducible(t *testing.T) {
	ds := syntheticDataset(t, 40)
	config := TrainingConfig{Seed: 42, NEstimators: 5}
	a, err := TrainProvider(ds, config)
	if err != nil {
		t.Fatal(err)
	}
	b, err := TrainProvider(ds, config)
	if err != nil {
		t.Fatal(err)
	}
	probe := ds.Row(0)
	va, _ := a.Predict(probe)
	vb, _ := b.Predict(probe)
	if va != vb {
		t.Fatalf("expected reproducible training, got %v and %v", va, vb)
	}
}

func TestNewModelProviderErrors(t *testing.T) {
	if _, err := NewModelProvider(TrainingConfig{}); err == nil {
		t.Fatal("expected error for empty dataset path")
	}
	if _, err := NewModelProvider(TrainingConfig{DatasetPath: filepath.Join(t.TempDir(), "nope.csv")}); err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if _, err := TrainProvider(syntheticDataset(t, 2), TrainingConfig{}); err == nil {
		t.Fatal("expected error for too few training rows")
	}
}
