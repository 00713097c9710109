package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestMemoryQueue_Publish(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for _, subject := range []string{"gradelens.analytics.stats", "gradelens.analytics.trend"} {
		if err := q.Publish(ctx, subject, []byte("event")); err != nil {
			t.Fatalf("Failed to publish to %s: %v", subject, err)
		}
	}

	if got := q.PendingCount("gradelens.analytics.stats"); got != 1 {
		t.Errorf("Expected 1 pending message, got %d", got)
	}
	if got := q.PendingCount("unknown"); got != 0 {
		t.Errorf("Expected 0 pending messages for unknown subject, got %d", got)
	}
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	buf := []byte("first")
	if err := q.Publish(context.Background(), "s", buf); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	copy(buf, "XXXXX")

	received := make(chan Message, 1)
	if err := q.Subscribe("s", func(msg Message) error {
		received <- msg
		return nil
	}); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	select {
	case msg := <-received:
		if string(msg.Data) != "first" {
			t.Errorf("Expected payload %q, got %q", "first", msg.Data)
		}
		if msg.Subject != "s" {
			t.Errorf("Expected subject s, got %s", msg.Subject)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for message")
	}
}

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	var (
		mu       sync.Mutex
		payloads []string
	)
	if err := q.Subscribe("events", func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		payloads = append(payloads, string(msg.Data))
		return nil
	}); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	n, err := q.PublishBatch(context.Background(), []Message{
		{Subject: "events", Data: []byte("a")},
		{Subject: "events", Data: []byte("b")},
		{Subject: "events", Data: []byte("c")},
	})
	if err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("Expected 3 published, got %d", n)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(payloads) == 3
	})

	mu.Lock()
	defer mu.Unlock()
	for i, want := range []string{"a", "b", "c"} {
		if payloads[i] != want {
			t.Errorf("payload[%d] = %q, want %q", i, payloads[i], want)
		}
	}
}

func TestMemoryQueue_HandlerErrorDropsMessage(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	var (
		mu    sync.Mutex
		calls int
	)
	if err := q.Subscribe("events", func(msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("boom")
	}); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := q.Publish(context.Background(), "events", []byte("x")); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("Expected handler called once, got %d", calls)
	}
}

func TestMemoryQueue_SubscribeTwice(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	handler := func(Message) error { return nil }
	if err := q.Subscribe("events", handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := q.Subscribe("events", handler); err == nil {
		t.Error("Expected error on duplicate subscription")
	}
}

func TestMemoryQueue_Unsubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	if err := q.Unsubscribe("events"); err == nil {
		t.Error("Expected error unsubscribing from unknown subject")
	}

	if err := q.Subscribe("events", func(Message) error { return nil }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := q.Unsubscribe("events"); err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}
	// Subscribing again after unsubscribe is allowed
	if err := q.Subscribe("events", func(Message) error { return nil }); err != nil {
		t.Fatalf("Failed to resubscribe: %v", err)
	}
}

func TestMemoryQueue_ChannelFull(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for i := 0; i < memoryQueueCapacity; i++ {
		if err := q.Publish(ctx, "full", []byte{byte(i)}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}
	if err := q.Publish(ctx, "full", []byte("overflow")); err == nil {
		t.Error("Expected error when channel is full")
	}

	n, err := q.PublishBatch(ctx, []Message{{Subject: "full", Data: []byte("x")}})
	if err != nil {
		t.Fatalf("PublishBatch should not fail: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 published, got %d", n)
	}
}

func TestMemoryQueue_Close(t *testing.T) {
	q := newMemoryQueue()

	if err := q.Subscribe("events", func(Message) error { return nil }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}

	if err := q.Publish(context.Background(), "events", []byte("x")); err == nil {
		t.Error("Expected error publishing to closed queue")
	}
	if err := q.Subscribe("other", func(Message) error { return nil }); err == nil {
		t.Error("Expected error subscribing to closed queue")
	}
}

func TestMemoryQueue_ConcurrentPublishClose(t *testing.T) {
	q := newMemoryQueue()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = q.Publish(context.Background(), "events", []byte("x"))
			}
		}()
	}
	_ = q.Close()
	wg.Wait()
}
