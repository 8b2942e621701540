package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"iter"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

const selectAttempt = `
	SELECT id, ts, quiz_id, quiz_title, quiz_source_url,
	       total, correct, score_sum, score_items,
	       item_meta, user_answers, result_state
	FROM attempts`

// attemptRow is the column layout of the attempts table.
type attemptRow struct {
	ID            int64  `db:"id"`
	Timestamp     int64  `db:"ts"`
	QuizID        string `db:"quiz_id"`
	QuizTitle     string `db:"quiz_title"`
	QuizSourceURL string `db:"quiz_source_url"`
	Total         int    `db:"total"`
	Correct       int    `db:"correct"`
	ScoreSum      int    `db:"score_sum"`
	ScoreItems    int    `db:"score_items"`
	ItemMeta      string `db:"item_meta"`
	UserAnswers   string `db:"user_answers"`
	ResultState   string `db:"result_state"`
}

func newAttemptRow(a domain.Attempt) (attemptRow, error) {
	meta, err := marshalColumn("item_meta", a.ItemMeta)
	if err != nil {
		return attemptRow{}, err
	}
	answers, err := marshalColumn("user_answers", a.UserAnswers)
	if err != nil {
		return attemptRow{}, err
	}
	results, err := marshalColumn("result_state", a.ResultState)
	if err != nil {
		return attemptRow{}, err
	}
	return attemptRow{
		Timestamp:     a.Timestamp,
		QuizID:        a.QuizID,
		QuizTitle:     a.QuizTitle,
		QuizSourceURL: a.QuizSourceURL,
		Total:         a.Total,
		Correct:       a.Correct,
		ScoreSum:      a.ScoreSum,
		ScoreItems:    a.ScoreItems,
		ItemMeta:      meta,
		UserAnswers:   answers,
		ResultState:   results,
	}, nil
}

func (r attemptRow) toDomain() (domain.Attempt, error) {
	meta, err := unmarshalColumn[domain.ItemMeta]("item_meta", r.ItemMeta)
	if err != nil {
		return domain.Attempt{}, err
	}
	answers, err := unmarshalColumn[json.RawMessage]("user_answers", r.UserAnswers)
	if err != nil {
		return domain.Attempt{}, err
	}
	results, err := unmarshalColumn[domain.ItemResult]("result_state", r.ResultState)
	if err != nil {
		return domain.Attempt{}, err
	}
	return domain.Attempt{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		QuizID:        r.QuizID,
		QuizTitle:     r.QuizTitle,
		QuizSourceURL: r.QuizSourceURL,
		Total:         r.Total,
		Correct:       r.Correct,
		ScoreSum:      r.ScoreSum,
		ScoreItems:    r.ScoreItems,
		ItemMeta:      meta,
		UserAnswers:   answers,
		ResultState:   results,
	}, nil
}

// AppendAttempt persists a graded attempt and returns its new id.
// Any ID already set on a is ignored. Ids increase monotonically and are
// never reused, even after ClearAttempts.
func (s *Store) AppendAttempt(ctx context.Context, a domain.Attempt) (int64, error) {
	row, err := newAttemptRow(a)
	if err != nil {
		return 0, writeFailed("append attempt", err)
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO attempts (
			ts, quiz_id, quiz_title, quiz_source_url,
			total, correct, score_sum, score_items,
			item_meta, user_answers, result_state
		) VALUES (
			:ts, :quiz_id, :quiz_title, :quiz_source_url,
			:total, :correct, :score_sum, :score_items,
			:item_meta, :user_answers, :result_state
		)
	`, row)
	if err != nil {
		return 0, writeFailed("append attempt", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeFailed("append attempt", err)
	}
	return id, nil
}

// ReadAttempt returns the attempt with the given id.
// Returns false if no such attempt exists.
func (s *Store) ReadAttempt(ctx context.Context, id int64) (domain.Attempt, bool, error) {
	var row attemptRow
	err := s.db.GetContext(ctx, &row, selectAttempt+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, readFailed("read attempt", err)
	}

	a, err := row.toDomain()
	if err != nil {
		return domain.Attempt{}, false, readFailed("read attempt", err)
	}
	return a, true, nil
}

// ListAttempts returns the most recent limit attempts, newest first.
// Returns an empty slice (not nil) when there are none or limit <= 0.
func (s *Store) ListAttempts(ctx context.Context, limit int) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, "list attempts", limit, selectAttempt+`
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
}

// ListQuizAttempts is ListAttempts restricted to one quiz.
func (s *Store) ListQuizAttempts(ctx context.Context, quizID string, limit int) ([]domain.Attempt, error) {
	return s.listAttempts(ctx, "list quiz attempts", limit, selectAttempt+`
		WHERE quiz_id = ?
		ORDER BY ts DESC, id DESC
		LIMIT ?`, quizID, limit)
}

func (s *Store) listAttempts(ctx context.Context, op string, limit int, query string, args ...any) ([]domain.Attempt, error) {
	out := []domain.Attempt{}
	if limit <= 0 {
		return out, nil
	}

	var rows []attemptRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, readFailed(op, err)
	}

	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, readFailed(op, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Attempts iterates over the whole attempt log, newest first.
// Iteration stops at the first error, which is yielded once.
func (s *Store) Attempts(ctx context.Context) iter.Seq2[domain.Attempt, error] {
	return func(yield func(domain.Attempt, error) bool) {
		rows, err := s.db.QueryxContext(ctx, selectAttempt+` ORDER BY ts DESC, id DESC`)
		if err != nil {
			yield(domain.Attempt{}, readFailed("iterate attempts", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row attemptRow
			if err := rows.StructScan(&row); err != nil {
				yield(domain.Attempt{}, readFailed("iterate attempts", err))
				return
			}
			a, err := row.toDomain()
			if err != nil {
				yield(domain.Attempt{}, readFailed("iterate attempts", err))
				return
			}
			if !yield(a, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.Attempt{}, readFailed("iterate attempts", err))
		}
	}
}

// CountAttempts returns the number of attempts in the log.
func (s *Store) CountAttempts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM attempts`); err != nil {
		return 0, readFailed("count attempts", err)
	}
	return n, nil
}

// ClearAttempts deletes every attempt. Cards are left untouched.
func (s *Store) ClearAttempts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return writeFailed("clear attempts", err)
	}
	return nil
}
