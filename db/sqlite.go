package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"hpcpredict/ml"
)

// Store appends startup training runs to a SQLite file. It never holds
// model state; the forest is rebuilt from the dataset on every start.
type Store struct {
	db *sql.DB
}

// TrainingRun is one row of training_log.
type TrainingRun struct {
	ID          int64
	ModelName   string
	NEstimators int
	Seed        int64
	TrainRows   int
	TestRows    int
	R2          float64
	MAE         float64
	RMSE        float64
	Duration    time.Duration
	TrainedAt   time.Time
}

// RunFromInfo converts a provider summary into a log row.
func RunFromInfo(info ml.ModelInfo) TrainingRun {
	run := TrainingRun{
		ModelName:   info.ModelName,
		NEstimators: info.NEstimators,
		Seed:        info.Seed,
		TrainRows:   info.TrainRows,
		TestRows:    info.TestRows,
		Duration:    info.Duration,
		TrainedAt:   info.TrainedAt,
	}
	if info.Holdout != nil {
		run.R2 = info.Holdout.R2
		run.MAE = info.Holdout.MAE
		run.RMSE = info.Holdout.RMSE
	}
	return run
}

// Open creates the file and schema if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	query := `
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_name VARCHAR(50) NOT NULL,
        n_estimators INTEGER NOT NULL,
        seed INTEGER NOT NULL,
        train_rows INTEGER NOT NULL,
        test_rows INTEGER NOT NULL,
        r2 REAL,
        mae REAL,
        rmse REAL,
        duration_ms INTEGER,
        trained_at DATETIME NOT NULL
    );`
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create tables failed: %w", err)
	}
	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTrainingRun inserts run and returns its row id.
func (s *Store) SaveTrainingRun(run TrainingRun) (int64, error) {
	if run.TrainedAt.IsZero() {
		run.TrainedAt = time.Now()
	}
	res, err := s.db.Exec(`
        INSERT INTO training_log (model_name, n_estimators, seed, train_rows, test_rows, r2, mae, rmse, duration_ms, trained_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ModelName, run.NEstimators, run.Seed, run.TrainRows, run.TestRows,
		run.R2, run.MAE, run.RMSE, run.Duration.Milliseconds(), run.TrainedAt.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecentTrainingRuns returns up to limit runs, newest first.
func (s *Store) RecentTrainingRuns(limit int) ([]TrainingRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
        SELECT id, model_name, n_estimators, seed, train_rows, test_rows, r2, mae, rmse, duration_ms, trained_at
        FROM training_log
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.ModelName, &run.NEstimators, &run.Seed, &run.TrainRows, &run.TestRows,
			&run.R2, &run.MAE, &run.RMSE, &durationMS, &run.TrainedAt); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
