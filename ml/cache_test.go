package ml

import (
	"errors"
	"testing"
)

type countingPredictor struct {
	calls int
}

func (c *countingPredictor) Predict(features []float64) (float64, error) {
	c.calls++
	return features[0] * 2, nil
}

func TestCachedPredictor(t *testing.T) {
	next := &countingPredictor{}
	cached, err := NewCachedPredictor(next, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{2, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for i := 0; i < 3; i++ {
		v, err := cached.Predict(a)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 2 {
			t.Fatalf("expected 2, got %v", v)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 underlying call, got %d", next.calls)
	}

	if v, _ := cached.Predict(b); v != 4 {
		t.Fatalf("expected 4, got %v", v)
	}
	if next.calls != 2 || cached.Len() != 2 {
		t.Fatalf("unexpected cache state: calls=%d len=%d", next.calls, cached.Len())
	}
}

func TestCachedPredictorArity(t *testing.T) {
	next := &countingPredictor{}
	cached, err := NewCachedPredictor(next, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cached.Predict([]float64{1}); !errors.Is(err, ErrFeatureArity) {
		t.Fatalf("expected ErrFeatureArity, got %v", err)
	}
	if next.calls != 0 {
		t.Fatal("wrong-arity vector reached the model")
	}
}

func TestNewCachedPredictorInvalidSize(t *testing.T) {
	if _, err := NewCachedPredictor(&countingPredictor{}, 0); err == nil {
		t.Fatal("expected error for zero cache size")
	}
}
