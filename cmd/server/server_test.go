package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/studyplan-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHTTPServerStopsOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHTTPServer(ctx, srv, time.Second, discardLogger()) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunHTTPServerReportsListenFailure(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", ReadHeaderTimeout: time.Second}

	err := runHTTPServer(context.Background(), srv, time.Second, discardLogger())
	assert.Error(t, err)
}

func TestShutdownTimeout(t *testing.T) {
	app := &application{config: &config.Config{}}
	assert.Equal(t, 10*time.Second, app.shutdownTimeout())

	app.config.Server.ShutdownTimeoutSeconds = 3
	assert.Equal(t, 3*time.Second, app.shutdownTimeout())
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("OK   %s", "00001_create_learning_items.sql")
	l.Fatalf("migration %d failed", 2)

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO","msg":"OK   00001_create_learning_items.sql"`)
	assert.Contains(t, out, `"level":"ERROR","msg":"migration 2 failed"`)
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	err := runMigrations(context.Background(), nil, "redo", discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migrate command")
}
