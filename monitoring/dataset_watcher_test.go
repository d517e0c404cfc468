package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

func TestDatasetWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hpc.csv")
	if err := os.WriteFile(path, []byte("X1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	changes := make(chan fsnotify.Event, 16)
	watcher, err := NewDatasetWatcher(path, zap.NewNop(), func(e fsnotify.Event) { changes <- e })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go watcher.Run(ctx)
	defer func() {
		cancel()
		watcher.Close()
		<-watcher.Done()
	}()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("X1\n1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-changes:
		if filepath.Base(event.Name) != "hpc.csv" {
			t.Fatalf("unexpected event for %s", event.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dataset change")
	}
}

func TestNewDatasetWatcherMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "hpc.csv")
	if _, err := NewDatasetWatcher(path, zap.NewNop(), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
