package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

const selectCard = `
	SELECT key, quiz_id, item_id, tag, reps, interval_days, ease,
	       last_quality, last_ts, due_ts
	FROM cards`

// DueOrder selects the ordering of due listings.
type DueOrder int

const (
	// LeastOverdueFirst orders by due_ts DESC, key DESC.
	LeastOverdueFirst DueOrder = iota

	// MostOverdueFirst orders by due_ts ASC, key ASC.
	MostOverdueFirst
)

// DueFilter narrows a due listing. Zero value selects every due card in
// LeastOverdueFirst order. QuizID and Tag may be combined.
type DueFilter struct {
	QuizID string
	Tag    string
	Order  DueOrder
}

// cardRow is the column layout of the cards table.
type cardRow struct {
	Key          string  `db:"key"`
	QuizID       string  `db:"quiz_id"`
	ItemID       string  `db:"item_id"`
	Tag          string  `db:"tag"`
	Reps         int     `db:"reps"`
	IntervalDays float64 `db:"interval_days"`
	Ease         float64 `db:"ease"`
	LastQuality  int     `db:"last_quality"`
	LastTs       int64   `db:"last_ts"`
	DueTs        int64   `db:"due_ts"`
}

func (r cardRow) toDomain() domain.Card {
	return domain.Card(r)
}

// GetCard returns the card stored under key.
// Returns false if no card has been created for key yet.
func (s *Store) GetCard(ctx context.Context, key string) (domain.Card, bool, error) {
	var row cardRow
	err := s.db.GetContext(ctx, &row, selectCard+` WHERE key = ?`, domain.Normalize(key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, false, nil
	}
	if err != nil {
		return domain.Card{}, false, readFailed("get card", err)
	}
	return row.toDomain(), true, nil
}

// PutCard inserts c, or replaces every field of the card with the same key.
// Key, ids and tag are stored NFC-normalized, so GetCard returns exactly
// what was put for normalized input.
func (s *Store) PutCard(ctx context.Context, c domain.Card) error {
	row := cardRow(c)
	row.Key = domain.Normalize(row.Key)
	row.QuizID = domain.Normalize(row.QuizID)
	row.ItemID = domain.Normalize(row.ItemID)
	row.Tag = domain.Normalize(row.Tag)

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO cards (
			key, quiz_id, item_id, tag, reps, interval_days, ease,
			last_quality, last_ts, due_ts
		) VALUES (
			:key, :quiz_id, :item_id, :tag, :reps, :interval_days, :ease,
			:last_quality, :last_ts, :due_ts
		)
		ON CONFLICT(key) DO UPDATE SET
			quiz_id = excluded.quiz_id,
			item_id = excluded.item_id,
			tag = excluded.tag,
			reps = excluded.reps,
			interval_days = excluded.interval_days,
			ease = excluded.ease,
			last_quality = excluded.last_quality,
			last_ts = excluded.last_ts,
			due_ts = excluded.due_ts
	`, row)
	if err != nil {
		return writeFailed("put card", err)
	}
	return nil
}

// ListDue returns up to limit cards with due_ts <= asOf, least overdue
// first. Returns an empty slice (not nil) when nothing is due.
func (s *Store) ListDue(ctx context.Context, limit int, asOf int64) ([]domain.Card, error) {
	return s.ListDueFiltered(ctx, DueFilter{}, limit, asOf)
}

// ListDueByQuiz is ListDue restricted to one quiz.
func (s *Store) ListDueByQuiz(ctx context.Context, quizID string, limit int, asOf int64) ([]domain.Card, error) {
	return s.ListDueFiltered(ctx, DueFilter{QuizID: quizID}, limit, asOf)
}

// ListDueByTag is ListDue restricted to cards whose primary tag is tag.
func (s *Store) ListDueByTag(ctx context.Context, tag string, limit int, asOf int64) ([]domain.Card, error) {
	return s.ListDueFiltered(ctx, DueFilter{Tag: tag}, limit, asOf)
}

// ListDueFiltered collects at most limit cards from DueCards.
func (s *Store) ListDueFiltered(ctx context.Context, f DueFilter, limit int, asOf int64) ([]domain.Card, error) {
	out := []domain.Card{}
	if limit <= 0 {
		return out, nil
	}
	for c, err := range s.DueCards(ctx, f, asOf) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// DueCards iterates over cards with due_ts <= asOf matching f.
// Each range re-runs the query.
func (s *Store) DueCards(ctx context.Context, f DueFilter, asOf int64) iter.Seq2[domain.Card, error] {
	query, args := dueQuery(f, asOf)

	return func(yield func(domain.Card, error) bool) {
		rows, err := s.db.QueryxContext(ctx, query, args...)
		if err != nil {
			yield(domain.Card{}, readFailed("list due", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row cardRow
			if err := rows.StructScan(&row); err != nil {
				yield(domain.Card{}, readFailed("list due", err))
				return
			}
			if !yield(row.toDomain(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Card{}, readFailed("list due", err))
		}
	}
}

// CountDue returns the number of cards with due_ts <= asOf matching f.
func (s *Store) CountDue(ctx context.Context, f DueFilter, asOf int64) (int, error) {
	where, args := dueWhere(f, asOf)
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM cards`+where, args...); err != nil {
		return 0, readFailed("count due", err)
	}
	return n, nil
}

// CountCards returns the total number of cards.
func (s *Store) CountCards(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM cards`); err != nil {
		return 0, readFailed("count cards", err)
	}
	return n, nil
}

func dueWhere(f DueFilter, asOf int64) (string, []any) {
	conds := []string{"due_ts <= ?"}
	args := []any{asOf}
	if f.QuizID != "" {
		conds = append(conds, "quiz_id = ?")
		args = append(args, domain.Normalize(f.QuizID))
	}
	if f.Tag != "" {
		conds = append(conds, "tag = ?")
		args = append(args, domain.Normalize(f.Tag))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func dueQuery(f DueFilter, asOf int64) (string, []any) {
	where, args := dueWhere(f, asOf)
	order := " ORDER BY due_ts DESC, key DESC"
	if f.Order == MostOverdueFirst {
		order = " ORDER BY due_ts ASC, key ASC"
	}
	return selectCard + where + order, args
}
