package test

import (
	"context"
	"fmt"
	"log"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"

	"taskapp/internal/adapter/database/sqlite"
)

// InitTestDB opens a migrated in-memory sqlite database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.New(sqlite.Options{Path: sqlite.MemoryPath})
	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB removes every task row, keeping the schema.
func CleanDB(t *testing.T, db *sqlite.DB) {
	t.Helper()

	if _, err := db.Exec("DELETE FROM tasks"); err != nil {
		t.Fatalf("Failed to clean tasks: %v", err)
	}
}

// SkipIntegration skips t under -short or when no container provider is reachable.
func SkipIntegration(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartContainer runs req, registers its cleanup on t and returns host:port of exposedPort.
func StartContainer(t *testing.T, req testcontainers.ContainerRequest, exposedPort string) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	testcontainers.CleanupContainer(t, container)

	if err != nil {
		t.Fatalf("Failed to start %s: %v", req.Image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to read container host: %v", err)
	}

	port, err := container.MappedPort(ctx, nat.Port(exposedPort))
	if err != nil {
		t.Fatalf("Failed to read mapped port %s: %v", exposedPort, err)
	}

	return fmt.Sprintf("%s:%s", host, port.Port())
}
