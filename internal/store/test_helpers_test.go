package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestAttempt creates a one-item attempt for quizID at ts.
func createTestAttempt(quizID string, ts int64, correct bool) domain.Attempt {
	n := 0
	if correct {
		n = 1
	}
	return domain.Attempt{
		Timestamp:     ts,
		QuizID:        quizID,
		QuizTitle:     "Title " + quizID,
		QuizSourceURL: "https://example.com/" + quizID + ".json",
		Total:         1,
		Correct:       n,
		ItemMeta: map[string]domain.ItemMeta{
			"i1": {Tags: []string{"grammar"}, Type: "mcq"},
		},
		UserAnswers: map[string]json.RawMessage{
			"i1": json.RawMessage(`"b"`),
		},
		ResultState: map[string]domain.ItemResult{
			"i1": {Correct: correct, Message: "ok"},
		},
	}
}

// createTestCard creates a card with the given key parts and due time.
func createTestCard(quizID, itemID, tag string, dueTs int64) domain.Card {
	return domain.Card{
		Key:          domain.CardKey(quizID, itemID),
		QuizID:       quizID,
		ItemID:       itemID,
		Tag:          tag,
		Reps:         1,
		IntervalDays: 1,
		Ease:         2.6,
		LastQuality:  5,
		LastTs:       dueTs - domain.MillisPerDay,
		DueTs:        dueTs,
	}
}
