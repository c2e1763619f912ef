package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	started atomic.Bool
	stopped atomic.Bool
	startFn func() error
	onStop  func()
}

func (m *mockService) Start() error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn()
	}
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockService) Stop() {
	m.stopped.Store(true)
	if m.onStop != nil {
		m.onStop()
	}
}

func TestLifecycleStartsAndStopsServicesInReverse(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))

	var mu sync.Mutex
	var order []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	svc1 := &mockService{onStop: record("svc1")}
	svc2 := &mockService{onStop: record("svc2")}
	lc.Add("svc1", svc1)
	lc.Add("svc2", svc2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	require.Eventually(t, func() bool {
		return svc1.started.Load() && svc2.started.Load()
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}
	assert.Equal(t, []string{"svc2", "svc1"}, order)
}

func TestLifecycleReturnsServiceFailure(t *testing.T) {
	lc := NewLifecycle(zaptest.NewLogger(t))
	healthy := &mockService{}
	broken := &mockService{startFn: func() error { return errors.New("port in use") }}
	lc.Add("healthy", healthy)
	lc.Add("broken", broken)

	err := lc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "port in use")
	assert.True(t, healthy.stopped.Load())
}

func TestCloserBlocksUntilStopped(t *testing.T) {
	released := 0
	c := NewCloser(func() { released++ })

	done := make(chan error, 1)
	go func() { done <- c.Start() }()

	select {
	case <-done:
		t.Fatal("Start returned before Stop")
	case <-time.After(20 * time.Millisecond):
	}

	c.Stop()
	c.Stop()
	require.NoError(t, <-done)
	assert.Equal(t, 1, released)
}

func TestHTTPServiceServesUntilStopped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	svc := NewHTTPService("127.0.0.1:0", handler, time.Second)
	addr, err := svc.Listen()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- svc.Start() }()

	resp, err := http.Get(fmt.Sprintf("http://%s/", addr))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	svc.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("http service did not stop")
	}
}
