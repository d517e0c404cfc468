package ml

import (
	"errors"
	"fmt"
	"time"
)

// TrainingConfig describes the one training run performed at startup.
type TrainingConfig struct {
	DatasetPath    string
	TestRatio      float64
	Seed           int64
	NEstimators    int
	MaxDepth       int
	MinSamplesLeaf int
	MaxFeatures    int
}

// ModelInfo describes a fitted provider.
type ModelInfo struct {
	ModelName   string        `json:"model_name"`
	NEstimators int           `json:"n_estimators"`
	Seed        int64         `json:"seed"`
	TrainRows   int           `json:"train_rows"`
	TestRows    int           `json:"test_rows"`
	Holdout     *Metrics      `json:"holdout,omitempty"`
	TrainedAt   time.Time     `json:"trained_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// ModelProvider owns the frozen forest. It has no exported way to retrain.
type ModelProvider struct {
	model *RandomForest
	info  ModelInfo
}

// NewModelProvider loads the dataset, splits it, fits the forest and scores
// the holdout rows.
func NewModelProvider(config TrainingConfig) (*ModelProvider, error) {
	if config.DatasetPath == "" {
		return nil, errors.New("dataset path is required")
	}
	ds, err := LoadDataset(config.DatasetPath)
	if err != nil {
		return nil, err
	}
	return TrainProvider(ds, config)
}

// TrainProvider fits a provider on an already loaded dataset.
func TrainProvider(ds *Dataset, config TrainingConfig) (*ModelProvider, error) {
	start := time.Now()
	train, test := TrainTestSplit(ds, config.TestRatio, config.Seed)
	if train.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 training rows, got %d", train.Len())
	}

	forest := NewRandomForest(ForestParams{
		NEstimators: config.NEstimators,
		Seed:        config.Seed,
		Tree: TreeParams{
			MaxDepth:       config.MaxDepth,
			MinSamplesLeaf: config.MinSamplesLeaf,
			MaxFeatures:    config.MaxFeatures,
		},
	})
	if err := forest.Fit(train.Columns(), train.Targets); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	info := ModelInfo{
		ModelName:   "random_forest",
		NEstimators: forest.NEstimators(),
		Seed:        config.Seed,
		TrainRows:   train.Len(),
		TestRows:    test.Len(),
	}
	if test.Len() > 0 {
		metrics, err := Evaluate(forest, test)
		if err != nil {
			return nil, fmt.Errorf("evaluate holdout: %w", err)
		}
		info.Holdout = &metrics
	}
	info.TrainedAt = time.Now()
	info.Duration = time.Since(start)

	return &ModelProvider{model: forest, info: info}, nil
}

func (p *ModelProvider) Predict(features []float64) (float64, error) {
	if err := checkArity(features); err != nil {
		return 0, err
	}
	return p.model.Predict(features)
}

func (p *ModelProvider) Info() ModelInfo {
	info := p.info
	if info.Holdout != nil {
		holdout := *info.Holdout
		info.Holdout = &holdout
	}
	return info
}
