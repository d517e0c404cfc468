package ml

import (
	"math"
	"math/rand"
)

// DefaultTestRatio is the holdout fraction used when none is configured.
const DefaultTestRatio = 0.3

// TrainTestSplit shuffles rows with a seeded PRNG and holds out
// ceil(n*testRatio) of them. A ratio outside (0,1) means DefaultTestRatio.
func TrainTestSplit(ds *Dataset, testRatio float64, seed int64) (train, test *Dataset) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = DefaultTestRatio
	}
	n := ds.Len()
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest >= n {
		nTest = n - 1
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	return ds.Subset(indices[nTest:]), ds.Subset(indices[:nTest])
}
