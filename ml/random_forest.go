package ml

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
)

// DefaultEstimators is the forest size used when none is configured.
const DefaultEstimators = 100

// ForestParams configures RandomForest.
type ForestParams struct {
	NEstimators int
	Tree        TreeParams
	Seed        int64
	Workers     int // 0 means runtime.NumCPU()
}

// RandomForest averages bootstrap-trained regression trees. It is safe for
// concurrent Predict calls once Fit has returned.
type RandomForest struct {
	params    ForestParams
	nFeatures int
	trees     []*RegressionTree
}

func NewRandomForest(params ForestParams) *RandomForest {
	if params.NEstimators <= 0 {
		params.NEstimators = DefaultEstimators
	}
	if params.Workers <= 0 {
		params.Workers = runtime.NumCPU()
	}
	return &RandomForest{params: params}
}

// Fit trains every tree on its own bootstrap sample. Per-tree seeds are
// drawn in order from the forest seed, so the result does not depend on
// worker scheduling.
func (f *RandomForest) Fit(columns [][]float64, targets []float64) error {
	if len(columns) == 0 || len(targets) == 0 {
		return errors.New("features or targets empty")
	}
	for _, col := range columns {
		if len(col) != len(targets) {
			return errors.New("features and targets size mismatch")
		}
	}

	master := rand.New(rand.NewSource(f.params.Seed))
	seeds := make([]int64, f.params.NEstimators)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*RegressionTree, len(seeds))
	errs := make([]error, len(seeds))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < f.params.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				trees[i], errs[i] = fitBootstrapTree(columns, targets, f.params.Tree, seeds[i])
			}
		}()
	}
	for i := range seeds {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	f.trees = trees
	f.nFeatures = len(columns)
	return nil
}

func fitBootstrapTree(columns [][]float64, targets []float64, params TreeParams, seed int64) (*RegressionTree, error) {
	tree := NewRegressionTree(params, seed)
	n := len(targets)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = tree.rnd.Intn(n)
	}
	if err := tree.fitRows(columns, targets, sample); err != nil {
		return nil, err
	}
	return tree, nil
}

func (f *RandomForest) Predict(features []float64) (float64, error) {
	if len(f.trees) == 0 {
		return 0, ErrNotTrained
	}
	if len(features) != f.nFeatures {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureArity, len(features), f.nFeatures)
	}
	var sum float64
	for _, tree := range f.trees {
		v, err := tree.Predict(features)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.trees)), nil
}

// NEstimators returns the number of fitted trees.
func (f *RandomForest) NEstimators() int {
	return len(f.trees)
}
