package stores

import (
	"context"
	"testing"
	"time"
)

func TestMemoryQueuePublishReceive(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	if err := q.Publish(ctx, "job-001"); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	jobID, ack, err := q.Receive(ctx)
	if err != nil {
		t.Fatalf("failed to receive: %v", err)
	}
	if jobID != "job-001" {
		t.Errorf("expected job-001, got %s", jobID)
	}
	ack()
}

func TestMemoryQueueReceiveBlocksUntilPublish(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = q.Publish(context.Background(), "job-002")
		close(done)
	}()

	jobID, _, err := q.Receive(ctx)
	if err != nil {
		t.Fatalf("failed to receive: %v", err)
	}
	if jobID != "job-002" {
		t.Errorf("expected job-002, got %s", jobID)
	}
	<-done
}

func TestMemoryQueueReceiveRespectsCancellation(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := q.Receive(ctx); err == nil {
		t.Error("expected error from a canceled context")
	}
}
