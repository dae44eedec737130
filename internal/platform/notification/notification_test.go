package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MhisterKhing6/shortly/internal/config"
)

func TestSMSSender_Send(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("PostsQuickSendPayload", func(t *testing.T) {
		var captured map[string]interface{}
		var capturedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedPath = r.URL.Path + "?" + r.URL.RawQuery
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sender := NewSMSSender(logger, &config.NotificationConfig{
			BaseURL:   server.URL,
			AccessKey: "test-key",
			Sender:    "SHORTLY",
			Timeout:   5 * time.Second,
		})

		err := sender.Send(context.Background(), Message{To: "+233200000001", Body: "hello"})

		assert.NoError(t, err)
		assert.Equal(t, "/quick?key=test-key", capturedPath)
		assert.Equal(t, []interface{}{"+233200000001"}, captured["recipient"])
		assert.Equal(t, "SHORTLY", captured["sender"])
		assert.Equal(t, "hello", captured["message"])
		assert.Equal(t, false, captured["is_schedule"])
	})

	t.Run("GatewayErrorSurfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		sender := NewSMSSender(logger, &config.NotificationConfig{
			BaseURL: server.URL,
			Timeout: 5 * time.Second,
		})

		err := sender.Send(context.Background(), Message{To: "+233200000001", Body: "hello"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("UnreachableGateway", func(t *testing.T) {
		sender := NewSMSSender(logger, &config.NotificationConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		})

		err := sender.Send(context.Background(), Message{To: "+233200000001", Body: "hello"})

		assert.Error(t, err)
	})
}

// recordingSender captures sends for dispatcher tests
type recordingSender struct {
	mu   sync.Mutex
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestPoolDispatcher(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("DeliversAsynchronously", func(t *testing.T) {
		sender := &recordingSender{}
		dispatcher, err := NewPoolDispatcher(logger, sender, PoolConfig{Size: 4})
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			dispatcher.Dispatch(Message{To: "+233200000001", Body: "ping"})
		}
		dispatcher.Shutdown()

		assert.Equal(t, 10, sender.count())
	})

	t.Run("DispatchNeverBlocksCaller", func(t *testing.T) {
		sender := &recordingSender{}
		dispatcher, err := NewPoolDispatcher(logger, sender, PoolConfig{Size: 1})
		require.NoError(t, err)
		defer dispatcher.Shutdown()

		done := make(chan struct{})
		go func() {
			dispatcher.Dispatch(Message{To: "+233200000001", Body: "ping"})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Dispatch blocked the caller")
		}
	})
}

func TestMessageTemplates(t *testing.T) {
	receiver := ReceiverAssignmentMessage("Ama", "Kofi", "+233240000001", "123456", "p-1")
	assert.Contains(t, receiver, "Ama")
	assert.Contains(t, receiver, "123456")
	assert.Contains(t, receiver, "p-1")

	riderMsg := RiderAssignmentMessage("Kofi", 3)
	assert.Contains(t, riderMsg, "Kofi")
	assert.Contains(t, riderMsg, "3 new parcels")

	statusMsg := ParcelStatusMessage("p-1", "DELIVERED")
	assert.Contains(t, statusMsg, "p-1")
	assert.Contains(t, statusMsg, "DELIVERED")
}
