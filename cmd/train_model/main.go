// Command train_model fits the forest offline and reports holdout metrics.
// It writes no model file; the server always retrains at startup.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"hpcpredict/db"
	"hpcpredict/ml"
)

func main() {
	datasetPath := flag.String("dataset", "data/hpc_resource_prediction_dataset.csv", "training dataset CSV")
	trees := flag.Int("trees", ml.DefaultEstimators, "number of trees")
	seed := flag.Int64("seed", 42, "split and bootstrap seed")
	testRatio := flag.Float64("test_ratio", ml.DefaultTestRatio, "holdout fraction")
	maxDepth := flag.Int("max_depth", 0, "max tree depth, 0 for unlimited")
	dbPath := flag.String("db", "", "sqlite training log to append to")
	flag.Parse()

	provider, err := ml.NewModelProvider(ml.TrainingConfig{
		DatasetPath: *datasetPath,
		TestRatio:   *testRatio,
		Seed:        *seed,
		NEstimators: *trees,
		MaxDepth:    *maxDepth,
	})
	if err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	info := provider.Info()
	fmt.Fprint(os.Stdout, report(info))

	if *dbPath != "" {
		store, err := db.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open training log: %v", err)
		}
		defer store.Close()
		id, err := store.SaveTrainingRun(db.RunFromInfo(info))
		if err != nil {
			log.Fatalf("failed to save training run: %v", err)
		}
		fmt.Printf("training run %d recorded in %s\n", id, *dbPath)
	}
}

func report(info ml.ModelInfo) string {
	out := fmt.Sprintf("trees=%d seed=%d train_rows=%d test_rows=%d duration=%s\n",
		info.NEstimators, info.Seed, info.TrainRows, info.TestRows, info.Duration)
	if info.Holdout == nil {
		return out + "no holdout rows\n"
	}
	return out + fmt.Sprintf("r2=%.4f mae=%.4f rmse=%.4f\n", info.Holdout.R2, info.Holdout.MAE, info.Holdout.RMSE)
}
