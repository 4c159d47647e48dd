//go:build integration

// Package testutil starts the MongoDB container used by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

const mongoImage = "mongo:7.0"

// MongoDBContainer wraps a running MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

var (
	shared     *MongoDBContainer
	sharedErr  error
	sharedOnce sync.Once
)

// StartMongoDB starts a dedicated MongoDB container.
func StartMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, mongoImage)
	if err != nil {
		return nil, fmt.Errorf("start mongodb container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mongodb connection string: %w", err)
	}
	return &MongoDBContainer{Container: container, URI: uri}, nil
}

// Terminate stops the container.
func (m *MongoDBContainer) Terminate(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate mongodb container: %w", err)
	}
	return nil
}

// SharedMongoDB returns the package-wide container, starting it on first use.
func SharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = StartMongoDB(ctx)
	})
	return shared, sharedErr
}

// SharedURI returns the connection string of the package-wide container.
func SharedURI() string {
	if shared == nil {
		panic("testutil: shared MongoDB container not started")
	}
	return shared.URI
}

// RunWithMongoDB is a TestMain body: it starts the shared container, runs the
// tests and terminates the container.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(m))
//	}
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()
	if _, err := SharedMongoDB(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "testutil: %v\n", err)
		return 1
	}

	code := m.Run()

	if err := shared.Terminate(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "testutil: %v\n", err)
	}
	return code
}

// DatabaseName derives a unique database name from a test name.
func DatabaseName(testName string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ".", "_").Replace(testName)
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1_000_000)
}
