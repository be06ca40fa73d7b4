package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type chanNotifier struct {
	got   chan string
	err   error
	block chan struct{}
}

func (n *chanNotifier) NotifyOnError(_ context.Context, message string, _ error) error {
	if n.block != nil {
		<-n.block
	}
	n.got <- message
	return n.err
}

func TestDispatcherDelivers(t *testing.T) {
	n := &chanNotifier{got: make(chan string, 1)}
	d, err := NewDispatcher(n, 2)
	require.NoError(t, err)
	defer d.Close(time.Second)

	d.Report("Unable to add new word", errors.New("disk full"))
	select {
	case msg := <-n.got:
		assert.Equal(t, "Unable to add new word", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("report not delivered")
	}
}

func TestDispatcherDoesNotBlock(t *testing.T) {
	n := &chanNotifier{got: make(chan string, 10), block: make(chan struct{})}
	d, err := NewDispatcher(n, 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			d.Report("busy", nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a busy notifier")
	}
	close(n.block)
	_ = d.Close(time.Second)
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	n := &chanNotifier{got: make(chan string, 1), err: errors.New("smtp down")}
	d, err := NewDispatcher(n, 1, WithLogger(zap.New(core)))
	require.NoError(t, err)

	d.Report("Unable to delete word", errors.New("locked"))
	<-n.got
	require.NoError(t, d.Close(time.Second))
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("error report not delivered").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	require.NoError(t, NewLogSink(zap.New(core)).NotifyOnError(context.Background(), "Unable to update word", errors.New("boom")))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Unable to update word", entries[0].Message)
}

func TestWebhook(t *testing.T) {
	var (
		mu   sync.Mutex
		got  Event
		auth string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhook(WebhookConfig{URL: srv.URL, Token: "secret"})
	require.NoError(t, hook.NotifyOnError(context.Background(), "Unable to add new word", errors.New("conflict")))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "Unable to add new word", got.Message)
	assert.Equal(t, "conflict", got.Error)
	assert.NotEmpty(t, got.ID)
}

func TestWebhookStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(WebhookConfig{URL: srv.URL}).NotifyOnError(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
