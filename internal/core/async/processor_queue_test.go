package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/cards-tracker/internal/entity"
	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
)

type fakeProcessor struct {
	mu   sync.Mutex
	seen []string
	gate chan struct{}
}

func (f *fakeProcessor) ProcessCard(ctx context.Context, files ingest.CardFiles) (*entity.BusinessCard, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.seen = append(f.seen, files.Key)
	f.mu.Unlock()
	if files.Key == "bad" {
		return nil, errors.New("boom")
	}
	return &entity.BusinessCard{ID: uuid.New()}, nil
}

func TestQueueDrainsOnShutdown(t *testing.T) {
	proc := &fakeProcessor{}
	var mu sync.Mutex
	failures := 0
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithResultHook(func(_ Job, _ *entity.BusinessCard, err error) {
		if err != nil {
			mu.Lock()
			failures++
			mu.Unlock()
		}
	}))

	for _, k := range []string{"a", "b", "bad", "c"} {
		if err := q.Enqueue(context.Background(), Job{Card: ingest.CardFiles{Key: k}}); err != nil {
			t.Fatalf("enqueue %s: %v", k, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if len(proc.seen) != 4 {
		t.Fatalf("processed %v", proc.seen)
	}
	if failures != 1 {
		t.Fatalf("failures = %d", failures)
	}
	if err := q.Enqueue(context.Background(), Job{}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("enqueue after shutdown = %v", err)
	}
}

func TestEnqueueBackpressureHonoursContext(t *testing.T) {
	proc := &fakeProcessor{gate: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	// one job held by the worker, one filling the buffer
	_ = q.Enqueue(context.Background(), Job{Card: ingest.CardFiles{Key: "1"}})
	deadline := time.Now().Add(5 * time.Second)
	for len(q.ch) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	_ = q.Enqueue(context.Background(), Job{Card: ingest.CardFiles{Key: "2"}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(ctx, Job{Card: ingest.CardFiles{Key: "3"}}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("enqueue on full queue = %v", err)
	}

	close(proc.gate)
	q.Shutdown(context.Background())
	if len(proc.seen) != 2 {
		t.Fatalf("processed %v", proc.seen)
	}
}
