package orchestrator

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServiceManagerServesUntilCancelled(t *testing.T) {
	addr := freeAddr(t)
	sm := NewServiceManager()
	sm.AddHTTPService("console", addr, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sm.Run(ctx, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("service manager did not stop")
	}
}

func TestServiceManagerListenFailure(t *testing.T) {
	sm := NewServiceManager()
	sm.AddHTTPService("console", "127.0.0.1:-1", http.NotFoundHandler())

	err := sm.Run(context.Background(), time.Second)
	assert.Error(t, err)
}

func TestServiceManagerRequiresServices(t *testing.T) {
	assert.Error(t, NewServiceManager().Run(context.Background(), time.Second))
}

func TestSignalHandlerCancels(t *testing.T) {
	sh := &SignalHandler{sigChan: make(chan os.Signal, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sh.HandleSignals(ctx, cancel)
	sh.sigChan <- syscall.SIGTERM

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
}
