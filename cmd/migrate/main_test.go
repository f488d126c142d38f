package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// this file lives in cmd/migrate/, so repo root is ../..
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
}

func TestMigrationsDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "/custom/migrations")
		assert.Equal(t, "/custom/migrations", migrationsDir())
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("MIGRATIONS_DIR", "")
		assert.Equal(t, "db/migrations", migrationsDir())
	})
}

func TestMigrations_Parse(t *testing.T) {
	dir := filepath.Join(repoRoot(t), "db", "migrations")

	_, err := goose.CollectMigrations(dir, 0, goose.MaxVersion)
	require.NoError(t, err, "migrations must parse")
}

func TestMigrations_HaveGooseDirectives(t *testing.T) {
	dir := filepath.Join(repoRoot(t), "db", "migrations")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		s := string(b)
		assert.Contains(t, s, "-- +goose Up", "%s missing up directive", e.Name())
		assert.Contains(t, s, "-- +goose Down", "%s missing down directive", e.Name())
	}
}
