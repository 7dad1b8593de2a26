package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/filevault/filevault/internal/queue"
)

// Runner consumes both job queues until the context is cancelled.
type Runner struct {
	queue      queue.Queue
	thumbnails *ThumbnailWorker
	welcome    *WelcomeWorker
}

func NewRunner(q queue.Queue, thumbnails *ThumbnailWorker, welcome *WelcomeWorker) *Runner {
	return &Runner{
		queue:      q,
		thumbnails: thumbnails,
		welcome:    welcome,
	}
}

func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup

	consume := func(name string, handler queue.Handler) {
		defer wg.Done()
		err := r.queue.Consume(ctx, name, handler)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("queue consumer stopped", "queue", name, "error", err)
		}
	}

	wg.Add(2)
	go consume(queue.FileQueue, r.thumbnails.Handle)
	go consume(queue.UserQueue, r.welcome.Handle)
	wg.Wait()
}
