package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"menud/internal/handler"
	"menud/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// readUntil returns the first non-empty line with the given prefix
func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
}

func TestHubStreamsBusEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := New(zap.NewNop())
	bus := service.NewEventBus()
	h.Subscribe(bus)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(h)
	transport := &http.Transport{}
	client := &http.Client{Transport: transport}

	reqCtx, reqCancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, ": connected")
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	bus.Publish(service.Event{Type: service.EventItemDeleted, Payload: map[string]int{"id": 3}})

	assert.Equal(t, "event: item_deleted", readUntil(t, reader, "event:"))
	assert.JSONEq(t, `{"type":"item_deleted","payload":{"id":3}}`,
		strings.TrimPrefix(readUntil(t, reader, "data:"), "data: "))

	reqCancel()
	resp.Body.Close()
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, h.ClientCount())

	transport.CloseIdleConnections()
	srv.Close()
}

func TestHubOutlivesWriteTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := New(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	// The access logger wraps the writer the way serve does
	srv := httptest.NewUnstartedServer(handler.Logger(zap.NewNop())(h))
	srv.Config.WriteTimeout = 300 * time.Millisecond
	srv.Start()
	transport := &http.Transport{}
	client := &http.Client{Transport: transport}

	reqCtx, reqCancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)

	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, ": connected")

	time.Sleep(600 * time.Millisecond)
	h.Broadcast(service.Event{Type: service.EventItemCreated, Payload: map[string]int{"id": 1}})

	assert.Equal(t, "event: item_created", readUntil(t, reader, "event:"))

	reqCancel()
	resp.Body.Close()
	cancel()
	<-stopped

	transport.CloseIdleConnections()
	srv.Close()
}

func TestHubRejectsAfterShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New(nil)
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Broadcast(service.Event{Type: service.EventItemCreated})
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func TestEncode(t *testing.T) {
	msg, err := encode(service.Event{Type: service.EventItemCreated, Payload: map[string]string{"title": "Soup"}})
	require.NoError(t, err)
	assert.Equal(t, "event: item_created\ndata: {\"type\":\"item_created\",\"payload\":{\"title\":\"Soup\"}}\n\n", string(msg))
}
