// Command pgarray-verify round-trips generated sample documents through a
// Postgres instance and a local SQLite mirror and compares what comes
// back element-wise. It exits non-zero on the first mismatch, which makes
// it usable as a deployment smoke check for the array codec.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/nrjais/pgarray/internal/config"
	"github.com/nrjais/pgarray/internal/migrations"
	"github.com/nrjais/pgarray/internal/store"
	"github.com/nrjais/pgarray/pkg/field"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Run(cfg.PostgresURL); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	pool, err := store.ConnectPostgres(ctx, cfg.PostgresURL)
	if err != nil {
		slog.Error("Postgres setup failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	local, err := store.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		slog.Error("SQLite setup failed", "error", err)
		os.Exit(1)
	}
	defer local.Close()

	stores := map[string]store.DocumentStore{
		"postgres": store.NewPostgresStore(pool),
		"sqlite":   local,
	}

	failures := 0
	for i := range cfg.VerifyOptions.SampleSize {
		doc := generateDocument(i, cfg.VerifyOptions.MaxElements)
		for backend, s := range stores {
			if err := verifyRoundTrip(ctx, s, doc); err != nil {
				slog.Error("Round trip failed", "backend", backend, "document", doc.Name, "error", err)
				failures++
			}
		}
		if ctx.Err() != nil {
			slog.Warn("Verification interrupted", "completed", i+1)
			break
		}
	}

	if failures > 0 {
		slog.Error("Verification finished with failures", "failures", failures)
		os.Exit(1)
	}
	slog.Info("Verification finished", "samples", cfg.VerifyOptions.SampleSize)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func generateDocument(seq, maxElements int) store.Document {
	doc := store.NewDocument(fmt.Sprintf("verify_%d_%s", seq, uuid.NewString()[:8]))

	n := 1 + rand.IntN(maxElements)
	tags := make(field.TextArray, n)
	scores := make(field.Float64Array, n)
	for i := range n {
		tags[i] = fmt.Sprintf("tag %d,%d", seq, i)
		scores[i] = float64(rand.IntN(1000))/8 - 50
	}
	doc.Tags = tags
	doc.Scores = scores

	rows := 1 + rand.IntN(3)
	cols := 1 + rand.IntN(3)
	grid := make([]any, rows)
	for r := range rows {
		row := make([]any, cols)
		for c := range cols {
			row[c] = int64(rand.IntN(100))
		}
		grid[r] = row
	}
	doc.Grid = field.New(store.GridDescriptor, grid)

	return doc
}

func verifyRoundTrip(ctx context.Context, s store.DocumentStore, doc store.Document) error {
	if err := s.Save(ctx, doc); err != nil {
		return err
	}
	got, err := s.Get(ctx, doc.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Delete(ctx, doc.Name); err != nil {
			slog.Warn("Failed to clean up verification document", "document", doc.Name, "error", err)
		}
	}()

	if err := compareArrays(doc, got); err != nil {
		return err
	}
	slog.Debug("Round trip ok", "document", doc.Name)
	return nil
}

func compareArrays(want, got store.Document) error {
	if len(want.Tags) != len(got.Tags) {
		return fmt.Errorf("tags length mismatch: sent %d, got %d", len(want.Tags), len(got.Tags))
	}
	for i := range want.Tags {
		if want.Tags[i] != got.Tags[i] {
			return fmt.Errorf("tags[%d] mismatch: sent %q, got %q", i, want.Tags[i], got.Tags[i])
		}
	}
	if len(want.Scores) != len(got.Scores) {
		return fmt.Errorf("scores length mismatch: sent %d, got %d", len(want.Scores), len(got.Scores))
	}
	for i := range want.Scores {
		if want.Scores[i] != got.Scores[i] {
			return fmt.Errorf("scores[%d] mismatch: sent %v, got %v", i, want.Scores[i], got.Scores[i])
		}
	}
	if fmt.Sprint(want.Grid.Elems) != fmt.Sprint(got.Grid.Elems) {
		return fmt.Errorf("grid mismatch: sent %v, got %v", want.Grid.Elems, got.Grid.Elems)
	}
	return nil
}
