// Package due answers "what should I review now?" over the card store.
package due

import (
	"context"
	"fmt"

	"github.com/KUROROSUKE/english-learning/internal/domain"
	"github.com/KUROROSUKE/english-learning/internal/store"
)

// Order selects which due cards come first.
type Order int

const (
	// LeastOverdueFirst returns the most recently due card first.
	LeastOverdueFirst Order = iota

	// MostOverdueFirst returns the card that has waited longest first.
	MostOverdueFirst
)

// Filter narrows a due listing to one quiz and/or one primary tag.
type Filter struct {
	QuizID string
	Tag    string
	Order  Order
}

func (f Filter) storeFilter() store.DueFilter {
	sf := store.DueFilter{QuizID: f.QuizID, Tag: f.Tag}
	if f.Order == MostOverdueFirst {
		sf.Order = store.MostOverdueFirst
	}
	return sf
}

// CardSource is the part of *store.Store that due listings read.
type CardSource interface {
	ListDueFiltered(ctx context.Context, f store.DueFilter, limit int, asOf int64) ([]domain.Card, error)
	CountDue(ctx context.Context, f store.DueFilter, asOf int64) (int, error)
}

// Entry is a due card with its human-readable label.
type Entry struct {
	Card  domain.Card `json:"card"`
	Label string      `json:"label"`
}

// Digest summarizes the due queue at one instant.
type Digest struct {
	AsOf    int64   `json:"as_of"`
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}

// Query lists due cards.
type Query struct {
	cards CardSource
}

// NewQuery creates a Query over cards.
func NewQuery(cards CardSource) *Query {
	return &Query{cards: cards}
}

// List returns up to limit cards due at asOf, each labeled relative to asOf.
// Returns an empty slice (not nil) when nothing is due.
func (q *Query) List(ctx context.Context, f Filter, limit int, asOf int64) ([]Entry, error) {
	cards, err := q.cards.ListDueFiltered(ctx, f.storeFilter(), limit, asOf)
	if err != nil {
		return nil, fmt.Errorf("list due: %w", err)
	}

	entries := make([]Entry, 0, len(cards))
	for _, c := range cards {
		entries = append(entries, Entry{Card: c, Label: Label(c.DueTs, asOf)})
	}
	return entries, nil
}

// Digest returns the total due count and the first limit entries.
func (q *Query) Digest(ctx context.Context, f Filter, limit int, asOf int64) (Digest, error) {
	total, err := q.cards.CountDue(ctx, f.storeFilter(), asOf)
	if err != nil {
		return Digest{}, fmt.Errorf("count due: %w", err)
	}

	entries, err := q.List(ctx, f, limit, asOf)
	if err != nil {
		return Digest{}, err
	}

	return Digest{AsOf: asOf, Total: total, Entries: entries}, nil
}
