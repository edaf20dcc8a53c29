package amqp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"possu/internal/log"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 1 * time.Second},
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"refused", errors.New("dial tcp: connection refused"), true},
		{"closed sentinel", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"delivery channel", errors.New("message channel closed"), true},
		{"validation", errors.New("invalid input"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func testClient() *Client {
	return &Client{
		exchangeName: "test_exchange",
		queueName:    "test_queue",
		logger:       log.New(log.Config{Output: io.Discard}),
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	c := testClient()

	if c.isCircuitOpen() {
		t.Fatal("circuit should start closed")
	}

	for i := 0; i < maxFailures-1; i++ {
		c.recordFailure()
	}
	if c.isCircuitOpen() {
		t.Fatal("circuit opened before reaching the failure threshold")
	}
	c.recordFailure()
	if !c.isCircuitOpen() {
		t.Fatal("circuit should open at the failure threshold")
	}

	c.lastFailure = time.Now().Add(-openTimeout - time.Second)
	if c.isCircuitOpen() {
		t.Fatal("circuit should half-open after the timeout")
	}
	if atomic.LoadInt32(&c.state) != StateHalfOpen {
		t.Fatalf("state = %d, want half-open", c.state)
	}

	// One failure while half-open reopens immediately.
	c.recordFailure()
	if atomic.LoadInt32(&c.state) != StateOpen {
		t.Fatal("failure in half-open should reopen the circuit")
	}

	c.recordSuccess()
	if c.isCircuitOpen() || atomic.LoadInt64(&c.failureCount) != 0 {
		t.Fatal("success should reset the circuit")
	}
}

func TestPublishEntrySync_Guards(t *testing.T) {
	c := testClient()

	atomic.StoreInt32(&c.state, StateOpen)
	c.lastFailure = time.Now()
	if err := c.PublishEntrySync(context.Background(), 1); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	c.recordSuccess()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.PublishEntrySync(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type ackRecorder struct {
	acked, requeued, dropped int
}

func (a *ackRecorder) Ack(uint64, bool) error { a.acked++; return nil }
func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	if requeue {
		a.requeued++
	} else {
		a.dropped++
	}
	return nil
}
func (a *ackRecorder) Reject(_ uint64, requeue bool) error { return a.Nack(0, false, requeue) }

func TestHandleDelivery(t *testing.T) {
	c := testClient()
	ctx := context.Background()
	body, _ := NewEntrySyncMessage(7).ToJSON()

	tests := []struct {
		name    string
		body    []byte
		handler func(context.Context, *EntrySyncMessage) error
		want    ackRecorder
	}{
		{
			name:    "success acks",
			body:    body,
			handler: func(context.Context, *EntrySyncMessage) error { return nil },
			want:    ackRecorder{acked: 1},
		},
		{
			name:    "handler error requeues",
			body:    body,
			handler: func(context.Context, *EntrySyncMessage) error { return errors.New("sheet down") },
			want:    ackRecorder{requeued: 1},
		},
		{
			name:    "bad json drops",
			body:    []byte(`{"id":"x"}`),
			handler: func(context.Context, *EntrySyncMessage) error { t.Fatal("handler called"); return nil },
			want:    ackRecorder{dropped: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &ackRecorder{}
			c.handleDelivery(ctx, amqp091.Delivery{Acknowledger: rec, Body: tt.body}, tt.handler)
			if *rec != tt.want {
				t.Fatalf("acks = %+v, want %+v", *rec, tt.want)
			}
		})
	}
}

func TestEntrySyncMessage_JSON(t *testing.T) {
	msg := NewEntrySyncMessage(12345)
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Fatalf("timestamp not recent: %v", msg.Timestamp)
	}
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), `"id":12345`) {
		t.Fatalf("unexpected json %s", data)
	}
	back, err := EntrySyncMessageFromJSON(data)
	if err != nil || back.ID != 12345 || !back.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("FromJSON = %+v, %v", back, err)
	}
}

func TestEntrySyncMessage_Invalid(t *testing.T) {
	for _, in := range []string{`{"id":"nope"}`, `{"id":0}`, `not json`} {
		if _, err := EntrySyncMessageFromJSON([]byte(in)); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}

func TestClient_CloseIdempotent(t *testing.T) {
	c := testClient()
	for i := 0; i < 2; i++ {
		if err := c.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}
	if c.conn != nil || c.channel != nil {
		t.Fatal("Close should clear the connection and channel")
	}
}
