package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/legalease/config"
	"go.uber.org/zap/zaptest"
)

func TestServerStartAndShutdown(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewServer(cfg, handler, zaptest.NewLogger(t))
	assert.Nil(t, srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
	assert.Error(t, err)
}

func TestServerWaitsForInFlightRequests(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second

	started := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, "finished")
	})
	srv := NewServer(cfg, handler, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	require.Eventually(t, func() bool { return srv.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	result := make(chan string, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
		if err != nil {
			result <- err.Error()
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		result <- string(b)
	}()

	<-started
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, "finished", <-result)
	assert.NoError(t, <-done)
}

func TestServerListenError(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.Port = 0

	first := NewServer(cfg, http.NotFoundHandler(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Start(ctx) }()
	require.Eventually(t, func() bool { return first.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	cfg.Port = first.Addr().(*net.TCPAddr).Port

	second := NewServer(cfg, http.NotFoundHandler(), nil)
	err := second.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
