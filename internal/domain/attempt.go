package domain

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Attempt is one graded run through a quiz, as appended to the attempt log.
// ID is assigned by the store; everything else is supplied by the grader.
type Attempt struct {
	ID            int64                      `json:"id"`
	Timestamp     int64                      `json:"timestamp"` // epoch ms
	QuizID        string                     `json:"quiz_id"`
	QuizTitle     string                     `json:"quiz_title"`
	QuizSourceURL string                     `json:"quiz_source_url"`
	Total         int                        `json:"total"`
	Correct       int                        `json:"correct"`
	ScoreSum      int                        `json:"score_sum"`   // free-text scores only
	ScoreItems    int                        `json:"score_items"` // items that carried a score
	ItemMeta      map[string]ItemMeta        `json:"item_meta"`
	UserAnswers   map[string]json.RawMessage `json:"user_answers"` // opaque to the engine
	ResultState   map[string]ItemResult      `json:"result_state"`
}

// ItemMeta describes an item at grading time.
type ItemMeta struct {
	Tags  []string `json:"tags"`
	Type  string   `json:"type"`
	Index int      `json:"index"` // position in the submitted item list
}

// ItemResult is the grader's verdict for a single item.
// Score is set only for items graded on a 0-5 scale (free text).
type ItemResult struct {
	Correct     bool     `json:"correct"`
	Message     string   `json:"message"`
	Explanation string   `json:"explanation,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	Feedback    []string `json:"feedback,omitempty"`
}

// Accuracy returns Correct/Total, or 0 for an empty attempt.
func (a Attempt) Accuracy() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total)
}

// PrimaryTag returns the normalized first tag for itemID, or UntaggedTag
// when the item has no metadata or no tags.
func (a Attempt) PrimaryTag(itemID string) string {
	meta, ok := a.ItemMeta[itemID]
	if !ok {
		return UntaggedTag
	}
	return PrimaryTag(meta.Tags)
}

// ResultOrder returns the item ids in ResultState in submission order.
// Items without metadata follow, sorted by id; equal positions (records
// written before positions were kept) also fall back to id order.
func (a Attempt) ResultOrder() []string {
	ids := slices.Collect(maps.Keys(a.ResultState))
	slices.SortFunc(ids, func(x, y string) int {
		mx, okx := a.ItemMeta[x]
		my, oky := a.ItemMeta[y]
		switch {
		case okx && !oky:
			return -1
		case !okx && oky:
			return 1
		case okx && oky:
			if c := cmp.Compare(mx.Index, my.Index); c != 0 {
				return c
			}
		}
		return strings.Compare(x, y)
	})
	return ids
}
