package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"hpcpredict/db"
	qhttp "hpcpredict/http"
	"hpcpredict/logging"
	"hpcpredict/ml"
	"hpcpredict/monitoring"
)

func main() {
	// 1. Load config
	config, err := loadConfig(findConfig())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.loggingConfig())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	var metrics *monitoring.Metrics
	if config.Metrics.Enabled {
		metrics = monitoring.NewMetrics()
	}

	// 2. Train the model once; the server never sees an untrained predictor
	provider, err := ml.NewModelProvider(config.trainingConfig())
	if err != nil {
		logger.Fatal("training failed", zap.String("dataset", config.Dataset.Path), zap.Error(err))
	}
	info := provider.Info()
	fields := []zap.Field{
		zap.String("dataset", config.Dataset.Path),
		zap.Int("n_estimators", info.NEstimators),
		zap.Int("train_rows", info.TrainRows),
		zap.Int("test_rows", info.TestRows),
		zap.Duration("duration", info.Duration),
	}
	if info.Holdout != nil {
		fields = append(fields,
			zap.Float64("holdout_r2", info.Holdout.R2),
			zap.Float64("holdout_mae", info.Holdout.MAE),
			zap.Float64("holdout_rmse", info.Holdout.RMSE))
	}
	logger.Info("model trained", fields...)
	if metrics != nil {
		metrics.ObserveModel(info)
	}
	recordTrainingRun(config.Database.Path, info, logger)

	var predictor ml.Predictor = provider
	if config.Model.CacheSize > 0 {
		predictor, err = ml.NewCachedPredictor(provider, config.Model.CacheSize)
		if err != nil {
			logger.Fatal("prediction cache", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if config.Dataset.Watch {
		startDatasetWatcher(ctx, config.Dataset.Path, logger, metrics)
	}

	// 3. Start HTTP server
	server := qhttp.NewServer(config.serverConfig(), predictor, provider, logger, metrics)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}

// recordTrainingRun appends the run to the training log when one is configured.
// A failure here is logged and does not stop the server.
func recordTrainingRun(path string, info ml.ModelInfo, logger *zap.Logger) {
	if path == "" {
		return
	}
	store, err := db.Open(path)
	if err != nil {
		logger.Warn("training log unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	defer store.Close()
	id, err := store.SaveTrainingRun(db.RunFromInfo(info))
	if err != nil {
		logger.Warn("save training run", zap.Error(err))
		return
	}
	logger.Info("training run recorded", zap.String("path", path), zap.Int64("id", id))
}

func startDatasetWatcher(ctx context.Context, path string, logger *zap.Logger, metrics *monitoring.Metrics) {
	watcher, err := monitoring.NewDatasetWatcher(path, logger, func(fsnotify.Event) {
		if metrics != nil {
			metrics.DatasetChanges.Inc()
		}
	})
	if err != nil {
		logger.Warn("dataset watcher disabled", zap.Error(err))
		return
	}
	go func() {
		<-ctx.Done()
		watcher.Close()
	}()
	go watcher.Run(ctx)
}
