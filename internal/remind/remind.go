// Package remind periodically reports the due queue.
package remind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/KUROROSUKE/english-learning/internal/clock"
	"github.com/KUROROSUKE/english-learning/internal/due"
)

// Notifier delivers one digest.
type Notifier interface {
	Notify(d due.Digest) error
}

// Reminder runs a due-queue digest on a fixed interval.
type Reminder struct {
	scheduler *gocron.Scheduler
	query     *due.Query
	clock     clock.Clock
	notifier  Notifier
	filter    due.Filter
	limit     int
	logger    *slog.Logger
}

// New creates a Reminder. limit bounds the entries listed per digest.
func New(q *due.Query, clk clock.Clock, n Notifier, f due.Filter, limit int, logger *slog.Logger) *Reminder {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Reminder{
		scheduler: s,
		query:     q,
		clock:     clk,
		notifier:  n,
		filter:    f,
		limit:     limit,
		logger:    logger,
	}
}

// Start runs Check immediately and then every interval until Stop.
// ctx is used for each check's store reads.
func (r *Reminder) Start(ctx context.Context, every time.Duration) error {
	_, err := r.scheduler.Every(every).StartImmediately().Do(func() {
		if err := r.Check(ctx); err != nil {
			r.logger.Error("due check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}

	r.scheduler.StartAsync()
	r.logger.Info("reminder started", "every", every)
	return nil
}

// Stop terminates the schedule.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check builds one digest and hands it to the notifier.
func (r *Reminder) Check(ctx context.Context) error {
	d, err := r.query.Digest(ctx, r.filter, r.limit, r.clock.Now())
	if err != nil {
		return err
	}

	r.logger.Debug("due digest", "total", d.Total, "listed", len(d.Entries))
	if err := r.notifier.Notify(d); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// WriterNotifier prints digests as text.
type WriterNotifier struct {
	W io.Writer
}

// Notify writes d to W.
func (n WriterNotifier) Notify(d due.Digest) error {
	at := clock.ToTime(d.AsOf).Format(time.RFC3339)
	if d.Total == 0 {
		_, err := fmt.Fprintf(n.W, "[%s] nothing due\n", at)
		return err
	}

	if _, err := fmt.Fprintf(n.W, "[%s] %d due\n", at, d.Total); err != nil {
		return err
	}
	for _, e := range d.Entries {
		if _, err := fmt.Fprintf(n.W, "  %s (%s) %s\n", e.Card.Key, e.Card.Tag, e.Label); err != nil {
			return err
		}
	}
	return nil
}
