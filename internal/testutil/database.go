// Package testutil provides helpers shared by package tests.
//
// Repository tests run against go-sqlmock instead of a live server:
//
//	db, mock := testutil.NewMockDB(t)
//	mock.ExpectExec(testutil.Query("DELETE FROM webhook_subscriptions WHERE id = $1")).
//		WithArgs(id).
//		WillReturnResult(sqlmock.NewResult(0, 1))
//
// Expectations are verified automatically when the test finishes.
package testutil

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// NewMockDB returns a sqlmock-backed *sql.DB. The connection is closed and all
// expectations are asserted on test cleanup.
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock")

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet(), "unfulfilled sql expectations")
		_ = db.Close()
	})

	return db, mock
}

// Query escapes a literal SQL statement for sqlmock's default regexp matcher.
func Query(sql string) string {
	return regexp.QuoteMeta(sql)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MigrationsPath resolves the migrations directory for dbType ("postgresql" or "mysql")
// by walking up from the working directory.
func MigrationsPath(dbType string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		migrationsPath := filepath.Join(dir, "migrations", dbType)
		if _, err := os.Stat(migrationsPath); err == nil {
			return migrationsPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("migrations directory not found for %s (started from %s)", dbType, dir)
		}
		dir = parent
	}
}
