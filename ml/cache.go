package ml

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type featureKey [FeatureCount]float64

// CachedPredictor memoises a frozen predictor by exact feature vector.
type CachedPredictor struct {
	next  Predictor
	cache *lru.Cache[featureKey, float64]
}

func NewCachedPredictor(next Predictor, size int) (*CachedPredictor, error) {
	cache, err := lru.New[featureKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}
	return &CachedPredictor{next: next, cache: cache}, nil
}

func (c *CachedPredictor) Predict(features []float64) (float64, error) {
	if err := checkArity(features); err != nil {
		return 0, err
	}
	var key featureKey
	copy(key[:], features)
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := c.next.Predict(features)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Len reports how many vectors are cached.
func (c *CachedPredictor) Len() int {
	return c.cache.Len()
}
