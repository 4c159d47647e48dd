//go:build !integration

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestNewServer(t *testing.T) {
	server := NewServer(okHandler, "8080")

	assert.Equal(t, ":8080", server.httpServer.Addr)
	assert.Equal(t, 15*time.Second, server.httpServer.ReadTimeout)
	assert.Equal(t, 15*time.Second, server.httpServer.WriteTimeout)
	assert.Equal(t, 60*time.Second, server.httpServer.IdleTimeout)
	assert.Equal(t, defaultShutdownTimeout, server.shutdownTimeout)
}

func TestNewServer_Options(t *testing.T) {
	server := NewServer(okHandler, "8080",
		WithShutdownTimeout(3*time.Second),
		WithShutdownTimeout(0),
		OnShutdown(func(context.Context) error { return nil }),
	)

	assert.Equal(t, 3*time.Second, server.shutdownTimeout)
	assert.Len(t, server.onShutdown, 1)
}

func TestServer_ShutdownRunsHooksInOrder(t *testing.T) {
	var order []string
	server := NewServer(okHandler, "0",
		OnShutdown(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			order = append(order, "services")
			return nil
		}),
		OnShutdown(func(context.Context) error {
			order = append(order, "database")
			return errors.New("disconnect failed")
		}),
	)

	err := server.Shutdown()

	assert.EqualError(t, err, "disconnect failed")
	assert.Equal(t, []string{"services", "database"}, order)
}

func TestServer_Run_GracefulShutdown(t *testing.T) {
	hookRan := make(chan struct{}, 1)
	server := NewServer(okHandler, "0", OnShutdown(func(context.Context) error {
		hookRan <- struct{}{}
		return nil
	}))

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	time.Sleep(100 * time.Millisecond)
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGTERM))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not shutdown in time")
	}
	select {
	case <-hookRan:
	default:
		t.Fatal("shutdown hook did not run")
	}
}

func TestServer_Run_WithError(t *testing.T) {
	server := NewServer(okHandler, "invalid-port")

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case err := <-errChan:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected listen error")
	}
}
