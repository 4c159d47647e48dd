//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/cartonization-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestMain shares one MongoDB container across the package's integration tests.
func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(m))
}

// setupTestDBFromSharedContainer connects to a fresh database on the shared container.
func setupTestDBFromSharedContainer(t *testing.T) *MongoDB {
	t.Helper()
	db, err := NewMongoDB(testutil.SharedURI(), testutil.DatabaseName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})
	return db
}
