// Package study records graded quiz attempts and keeps the per-item review
// schedule in step with them.
//
// A recording is two independent writes: the attempt is appended to the
// log, then each graded item's card is updated one at a time. There is no
// transaction spanning both; if a card update fails the attempt and any
// earlier card updates stand, and the error is returned.
package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KUROROSUKE/english-learning/internal/clock"
	"github.com/KUROROSUKE/english-learning/internal/domain"
	"github.com/KUROROSUKE/english-learning/internal/sm2"
)

// Store is the part of *store.Store the recorder writes through.
type Store interface {
	AppendAttempt(ctx context.Context, a domain.Attempt) (int64, error)
	GetCard(ctx context.Context, key string) (domain.Card, bool, error)
	PutCard(ctx context.Context, c domain.Card) error
}

// Result describes one completed recording.
type Result struct {
	TraceID   string        `json:"trace_id"`
	AttemptID int64         `json:"attempt_id"`
	Timestamp int64         `json:"timestamp"`
	QuizID    string        `json:"quiz_id"`
	Total     int           `json:"total"`
	Correct   int           `json:"correct"`
	Cards     []domain.Card `json:"cards"`
}

// Recorder appends attempts and applies SM-2 updates to their cards.
type Recorder struct {
	store  Store
	clock  clock.Clock
	ids    TraceIDGenerator
	logger *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = l
	}
}

// NewRecorder creates a Recorder writing to s, stamping with clk and
// labeling each recording with an id from ids.
func NewRecorder(s Store, clk clock.Clock, ids TraceIDGenerator, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  s,
		clock:  clk,
		ids:    ids,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record validates sub, appends it as an attempt and updates the card of
// every item that has a result, in item order.
//
// On a card failure the returned Result still carries the attempt id and
// the cards updated so far.
func (r *Recorder) Record(ctx context.Context, sub Submission) (Result, error) {
	traceID := r.ids.Generate()
	log := r.logger.With("trace_id", traceID, "quiz_id", sub.ResolvedQuizID())

	if err := sub.Validate(); err != nil {
		log.Warn("rejected submission", "error", err)
		return Result{TraceID: traceID}, err
	}

	now := r.clock.Now()
	a, err := sub.Attempt(now)
	if err != nil {
		log.Warn("rejected submission", "error", err)
		return Result{TraceID: traceID}, err
	}

	id, err := r.store.AppendAttempt(ctx, a)
	if err != nil {
		log.Error("append attempt failed", "error", err)
		return Result{TraceID: traceID}, fmt.Errorf("record attempt: %w", err)
	}
	log.Debug("appended attempt", "attempt_id", id, "total", a.Total, "correct", a.Correct)

	res := Result{
		TraceID:   traceID,
		AttemptID: id,
		Timestamp: a.Timestamp,
		QuizID:    a.QuizID,
		Total:     a.Total,
		Correct:   a.Correct,
		Cards:     []domain.Card{},
	}

	// Cards are scheduled from the recording instant, not a.Timestamp.
	for _, it := range sub.Items {
		result, ok := a.ResultState[it.ID]
		if !ok {
			continue
		}

		c, err := r.updateCard(ctx, a.QuizID, it, sm2.DeriveQuality(result), now)
		if err != nil {
			log.Error("card update failed", "item_id", it.ID, "attempt_id", id, "error", err)
			return res, fmt.Errorf("record item %q: %w", it.ID, err)
		}
		res.Cards = append(res.Cards, c)
	}

	log.Info("recorded attempt",
		"attempt_id", id,
		"correct", a.Correct,
		"total", a.Total,
		"cards", len(res.Cards),
	)
	return res, nil
}

func (r *Recorder) updateCard(ctx context.Context, quizID string, it Item, quality int, now int64) (domain.Card, error) {
	tag := domain.PrimaryTag(it.Tags)
	key := domain.CardKey(quizID, it.ID)

	c, ok, err := r.store.GetCard(ctx, key)
	if err != nil {
		return domain.Card{}, err
	}
	if !ok {
		c = sm2.NewCard(quizID, it.ID, tag, now)
	}

	c = sm2.Update(c, quality, tag, now)
	if err := r.store.PutCard(ctx, c); err != nil {
		return domain.Card{}, err
	}
	return c, nil
}
