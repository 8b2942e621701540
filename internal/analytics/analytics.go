// Package analytics ranks items, quizzes and tags by accuracy over the
// attempt history ("weakness" analysis).
//
// Analyze is pure: it reads only the attempts it is given. Attempts with
// missing metadata or results are tolerated; an item without metadata
// counts under the "(untagged)" bucket.
package analytics

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

// TopN bounds WorstItems and WorstTags.
const TopN = 10

// UnknownQuiz buckets attempts recorded without a quiz id.
const UnknownQuiz = "unknown"

// ItemStat is the accuracy of one "<quizID>::<itemID>" key.
type ItemStat struct {
	Key      string  `json:"key"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// QuizStat is the accuracy over every result recorded for one quiz.
type QuizStat struct {
	QuizID   string  `json:"quiz_id"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// TagStat is the accuracy of every item whose primary tag is Tag.
type TagStat struct {
	Tag      string  `json:"tag"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// Report is the result of Analyze. Slices are never nil.
type Report struct {
	WorstItems []ItemStat `json:"worst_items"`
	Quizzes    []QuizStat `json:"quizzes"`
	WorstTags  []TagStat  `json:"worst_tags"`
}

type tally struct {
	n, correct int
}

func (t *tally) add(correct bool) {
	t.n++
	if correct {
		t.correct++
	}
}

func (t tally) accuracy() float64 {
	if t.n == 0 {
		return 0
	}
	return float64(t.correct) / float64(t.n)
}

// ordered keeps first-encounter order so equal accuracies sort stably.
type ordered struct {
	keys   []string
	counts map[string]*tally
}

func newOrdered() *ordered {
	return &ordered{counts: map[string]*tally{}}
}

func (o *ordered) get(key string) *tally {
	t, ok := o.counts[key]
	if !ok {
		t = &tally{}
		o.counts[key] = t
		o.keys = append(o.keys, key)
	}
	return t
}

// Analyze aggregates attempts into per-item, per-quiz and per-tag accuracy,
// each sorted ascending by accuracy. Ties keep first-encounter order, and
// within one attempt items are visited in submission order.
func Analyze(attempts []domain.Attempt) Report {
	return AnalyzeSeq(slices.Values(attempts))
}

// AnalyzeLog is Analyze over a fallible sequence such as store.Attempts.
// It stops at the first error and returns it with an empty report.
func AnalyzeLog(attempts iter.Seq2[domain.Attempt, error]) (Report, error) {
	var iterErr error
	r := AnalyzeSeq(func(yield func(domain.Attempt) bool) {
		for a, err := range attempts {
			if err != nil {
				iterErr = err
				return
			}
			if !yield(a) {
				return
			}
		}
	})
	if iterErr != nil {
		return Report{}, fmt.Errorf("analyze: %w", iterErr)
	}
	return r, nil
}

// AnalyzeSeq is Analyze over an in-memory sequence.
func AnalyzeSeq(attempts iter.Seq[domain.Attempt]) Report {
	items, quizzes, tags := newOrdered(), newOrdered(), newOrdered()

	for a := range attempts {
		quizID := domain.Normalize(a.QuizID)
		if quizID == "" {
			quizID = UnknownQuiz
		}

		// A quiz row exists even when the attempt carries no results.
		quiz := quizzes.get(quizID)
		for _, itemID := range a.ResultOrder() {
			correct := a.ResultState[itemID].Correct
			quiz.add(correct)
			items.get(domain.CardKey(quizID, itemID)).add(correct)
			tags.get(a.PrimaryTag(itemID)).add(correct)
		}
	}

	r := Report{
		WorstItems: make([]ItemStat, 0, len(items.keys)),
		Quizzes:    make([]QuizStat, 0, len(quizzes.keys)),
		WorstTags:  make([]TagStat, 0, len(tags.keys)),
	}
	for _, k := range items.keys {
		t := items.counts[k]
		r.WorstItems = append(r.WorstItems, ItemStat{Key: k, Attempts: t.n, Correct: t.correct, Accuracy: t.accuracy()})
	}
	for _, k := range quizzes.keys {
		t := quizzes.counts[k]
		r.Quizzes = append(r.Quizzes, QuizStat{QuizID: k, Total: t.n, Correct: t.correct, Accuracy: t.accuracy()})
	}
	for _, k := range tags.keys {
		t := tags.counts[k]
		r.WorstTags = append(r.WorstTags, TagStat{Tag: k, Attempts: t.n, Correct: t.correct, Accuracy: t.accuracy()})
	}

	slices.SortStableFunc(r.WorstItems, func(a, b ItemStat) int { return cmp.Compare(a.Accuracy, b.Accuracy) })
	slices.SortStableFunc(r.Quizzes, func(a, b QuizStat) int { return cmp.Compare(a.Accuracy, b.Accuracy) })
	slices.SortStableFunc(r.WorstTags, func(a, b TagStat) int { return cmp.Compare(a.Accuracy, b.Accuracy) })

	r.WorstItems = r.WorstItems[:min(len(r.WorstItems), TopN)]
	r.WorstTags = r.WorstTags[:min(len(r.WorstTags), TopN)]
	return r
}
