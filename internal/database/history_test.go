package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DOVA00/checking-links/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newResult(url string, score float64, level model.TrustLevel, at time.Time) *model.EvaluationResult {
	return model.NewEvaluationResult(url, model.Checks{
		model.CheckHTTPS:    model.Ok(true),
		model.CheckValidSSL: model.Failed(model.CheckValidSSL, "handshake timeout"),
	}, score, level, at)
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

// TestSaveAndLoadEvaluation tests the round trip of a single evaluation.
func TestSaveAndLoadEvaluation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

	id, err := db.SaveEvaluation(ctx, newResult("https://example.com", 45, model.TrustLevelLow, at))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	got, err := db.LatestEvaluation(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if got == nil {
		t.Fatal("expected an evaluation")
	}
	if got.Score != 45 || got.Level != model.TrustLevelLow || !got.Timestamp.Equal(at) {
		t.Errorf("unexpected evaluation %+v", got)
	}
	if o := got.Checks[model.CheckValidSSL]; o.Status != model.StatusFailed || o.Reason != "handshake timeout" {
		t.Errorf("expected failure details to survive, got %v", o)
	}

	byID, err := db.EvaluationByID(ctx, id)
	if err != nil || byID == nil || byID.URL != "https://example.com" {
		t.Errorf("EvaluationByID = %v, %v", byID, err)
	}

	if _, err := db.SaveEvaluation(ctx, nil); err == nil {
		t.Error("expected error for nil result")
	}
}

// TestLatestEvaluation_Missing tests lookups of unknown URLs.
func TestLatestEvaluation_Missing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	got, err := db.LatestEvaluation(context.Background(), "https://never.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

// TestHistory tests ordering and listing of stored evaluations.
func TestHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	results := []*model.EvaluationResult{
		newResult("https://b.example", 30, model.TrustLevelLow, base),
		newResult("https://a.example", 55, model.TrustLevelMedium, base.Add(time.Hour)),
		newResult("https://a.example", 75, model.TrustLevelHigh, base.Add(48*time.Hour)),
		newResult("https://a.example", 50, model.TrustLevelMedium, base.Add(500*time.Millisecond)),
	}
	if err := db.SaveEvaluations(ctx, results); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	history, err := db.History(ctx, "https://a.example")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	wantScores := []float64{75, 55, 50}
	for i, rec := range history {
		if rec.Score != wantScores[i] {
			t.Errorf("history[%d].Score = %v, expected %v", i, rec.Score, wantScores[i])
		}
	}
	if history[0].Level != model.TrustLevelHigh {
		t.Errorf("expected HIGH, got %s", history[0].Level)
	}

	latest, err := db.LatestEvaluation(ctx, "https://a.example")
	if err != nil || latest.Score != 75 {
		t.Errorf("expected latest score 75, got %v (err %v)", latest, err)
	}

	urls, err := db.ListEvaluatedURLs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example" || urls[1] != "https://b.example" {
		t.Errorf("unexpected urls %v", urls)
	}
}

// TestPurgeBefore tests deleting old evaluations.
func TestPurgeBefore(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		if _, err := db.SaveEvaluation(ctx, newResult("https://example.com", 40, model.TrustLevelLow, base.AddDate(0, i, 0))); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.PurgeBefore(ctx, base.AddDate(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged row, got %d", n)
	}

	history, err := db.History(ctx, "https://example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 remaining records, got %d", len(history))
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	for _, s := range []string{
		"2026-02-03 04:05:06.000000000",
		"2026-02-03 04:05:06",
		"2026-02-03T04:05:06Z",
	} {
		if got := parseTimestamp(s); !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, expected %v", s, got, want)
		}
	}
	if !parseTimestamp("garbage").IsZero() {
		t.Error("expected zero time for garbage")
	}
}
