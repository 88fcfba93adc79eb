//go:build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/drws/seedfetch/internal/testutils"
)

// TestCLIIntegration runs the full pipeline against a local archive server
// and then feeds the produced init.sql to a real Postgres instance, the way
// the downstream database bootstrap would.
func TestCLIIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	initSQL := []byte(`
CREATE TABLE aircrafts (
    aircraft_code char(3) PRIMARY KEY,
    model text NOT NULL,
    range int NOT NULL
);
INSERT INTO aircrafts VALUES ('773', 'Boeing 777-300', 11100);
INSERT INTO aircrafts VALUES ('763', 'Boeing 767-300', 7900);
INSERT INTO aircrafts VALUES ('SU9', 'Sukhoi Superjet-100', 3000);
`)

	archive := testutils.BuildZip(t, map[string][]byte{
		"demo-small-en-20170815.sql": initSQL,
	})

	t.Log("Starting archive test server...")
	server := testutils.StartArchiveServer(t, map[string][]byte{
		"/demo-small-en.zip": archive,
	})
	defer server.Close()

	dataDir := filepath.Join(t.TempDir(), "data")

	t.Run("fetch", func(t *testing.T) {
		exitCode := runFetch([]string{
			"-url", server.URL + "/demo-small-en.zip",
			"-dir", dataDir,
		})
		if exitCode != ExitSuccess {
			t.Fatalf("fetch failed with exit code %d", exitCode)
		}
	})

	canonical := filepath.Join(dataDir, "init.sql")
	loaded, err := os.ReadFile(canonical)
	if err != nil {
		t.Fatalf("read canonical file: %v", err)
	}
	if string(loaded) != string(initSQL) {
		t.Fatalf("canonical content mismatch: got %d bytes, want %d bytes", len(loaded), len(initSQL))
	}

	t.Log("Starting Postgres container...")
	pg := testutils.StartPostgresContainer(t, ctx)
	defer func() {
		if err := pg.Close(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	}()

	t.Run("bootstrap_database", func(t *testing.T) {
		conn, err := pgx.Connect(ctx, pg.ConnString)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer conn.Close(ctx)

		// No arguments, so pgx uses the simple protocol and the whole
		// multi-statement script runs as one batch.
		if _, err := conn.Exec(ctx, string(loaded)); err != nil {
			t.Fatalf("load init.sql: %v", err)
		}

		var count int
		if err := conn.QueryRow(ctx, "SELECT count(*) FROM aircrafts").Scan(&count); err != nil {
			t.Fatalf("query: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 aircraft rows, got %d", count)
		}
	})
}
