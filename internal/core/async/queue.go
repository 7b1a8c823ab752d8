package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/cards-tracker/internal/ingest"
)

// Job is one card waiting for a worker.
type Job struct {
	Card        ingest.CardFiles
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
