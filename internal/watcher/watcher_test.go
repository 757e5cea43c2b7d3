package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/conduitapp/conduit/internal/codec"
	"github.com/conduitapp/conduit/internal/models"
	"github.com/conduitapp/conduit/internal/storage"
)

func watcherTestEnv(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func encodedMemory(id string) []byte {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return codec.Encode(&models.Memory{
		ID:        id,
		Title:     "external edit",
		Content:   "dropped in by hand",
		Tags:      []string{"manual"},
		CreatedAt: now,
		UpdatedAt: now,
	})
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) record(kind, id string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+id)
	r.mu.Unlock()
}

func (r *eventRecorder) has(want string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == want {
			return true
		}
	}
	return false
}

func TestWatcher_ExternalCreateAndDelete(t *testing.T) {
	dir, store := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &eventRecorder{}
	go Watch(ctx, store, dir, logger, rec.record)

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "aaaa1111.md")
	_ = os.WriteFile(path, encodedMemory("aaaa1111"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:aaaa1111")
	}, "created event not observed")

	_ = os.Remove(path)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:aaaa1111")
	}, "deleted event not observed")
}

func TestWatcher_UndecodableFileIgnored(t *testing.T) {
	dir, store := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &eventRecorder{}
	go Watch(ctx, store, dir, logger, rec.record)

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "broken.md"), []byte("not a record"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "good.md"), encodedMemory("good"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:good")
	}, "valid file not observed")

	if rec.has("created:broken") {
		t.Error("undecodable file produced an event")
	}
}

func TestWatcher_ExistingRecordUpdateReportedAsUpdated(t *testing.T) {
	dir, store := watcherTestEnv(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Record exists before the watcher starts, so a rewrite is an update.
	path := filepath.Join(dir, "pre.md")
	_ = os.WriteFile(path, encodedMemory("pre"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &eventRecorder{}
	go Watch(ctx, store, dir, logger, rec.record)

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(path, encodedMemory("pre"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("updated:pre")
	}, "updated event not observed")
}
