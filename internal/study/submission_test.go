package study

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

const sampleYAML = `
quiz_id: grammar-01
quiz_title: Past tense
quiz_source_url: https://example.com/q.json
items:
  - id: i1
    type: mcq
    tags: [grammar, past]
  - id: i2
    type: reorder
    tags: []
  - id: i3
    type: free
    tags: [translation]
answers:
  i1: b
  i2: [I, went, home]
  i3: "I went home."
results:
  i1: { correct: true, message: ok }
  i2: { correct: false, message: wrong, explanation: "word order" }
  i3: { correct: true, message: good, score: 4.4, feedback: [nice] }
`

func TestDecodeSubmission_YAML(t *testing.T) {
	sub, err := DecodeSubmission(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, sub.Validate())

	assert.Equal(t, "grammar-01", sub.QuizID)
	require.Len(t, sub.Items, 3)
	assert.Equal(t, []string{"grammar", "past"}, sub.Items[0].Tags)
	require.NotNil(t, sub.Results["i3"].Score)
	assert.InDelta(t, 4.4, *sub.Results["i3"].Score, 1e-9)
	assert.Equal(t, []string{"nice"}, sub.Results["i3"].Feedback)
}

func TestDecodeSubmission_JSON(t *testing.T) {
	doc := `{"quiz_id":"q","items":[{"id":"i1","type":"mcq","tags":["a"]}],"results":{"i1":{"correct":true,"message":"ok"}}}`

	sub, err := DecodeSubmission(strings.NewReader(doc))
	require.NoError(t, err)
	require.NoError(t, sub.Validate())
	assert.True(t, sub.Results["i1"].Correct)
}

func TestDecodeSubmission_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"unknown field", "quiz_id: q\nbogus: 1\n"},
		{"not a mapping", "- 1\n- 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSubmission(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}
}

func TestSubmission_Validate(t *testing.T) {
	valid := func() Submission {
		return Submission{
			QuizID:  "q",
			Items:   []Item{{ID: "i1", Tags: []string{"a"}}, {ID: "i2"}},
			Results: map[string]domain.ItemResult{"i1": {Correct: true}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"no items", func(s *Submission) { s.Items = nil }},
		{"empty item id", func(s *Submission) { s.Items[1].ID = "" }},
		{"duplicate item id", func(s *Submission) { s.Items[1].ID = "i1" }},
		{"empty tag", func(s *Submission) { s.Items[0].Tags = []string{""} }},
		{"negative timestamp", func(s *Submission) { s.Timestamp = -1 }},
		{"bad source url", func(s *Submission) { s.QuizSourceURL = "not a url" }},
		{"result for unknown item", func(s *Submission) { s.Results["zz"] = domain.ItemResult{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}
}

func TestSubmission_Attempt(t *testing.T) {
	sub, err := DecodeSubmission(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	a, err := sub.Attempt(1_718_000_000_000)
	require.NoError(t, err)

	assert.Equal(t, int64(1_718_000_000_000), a.Timestamp)
	assert.Equal(t, "grammar-01", a.QuizID)
	assert.Equal(t, "Past tense", a.QuizTitle)
	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 2, a.Correct)
	assert.Equal(t, 4, a.ScoreSum)
	assert.Equal(t, 1, a.ScoreItems)
	assert.Equal(t, domain.ItemMeta{Tags: []string{}, Type: "reorder", Index: 1}, a.ItemMeta["i2"])
	assert.JSONEq(t, `"b"`, string(a.UserAnswers["i1"]))
	assert.JSONEq(t, `["I","went","home"]`, string(a.UserAnswers["i2"]))
	assert.Len(t, a.ResultState, 3)
	assert.Equal(t, []string{"i1", "i2", "i3"}, a.ResultOrder())
}

func TestSubmission_AttemptKeepsExplicitTimestamp(t *testing.T) {
	sub := Submission{QuizID: "q", Timestamp: 5, Items: []Item{{ID: "i1"}}}

	a, err := sub.Attempt(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.Timestamp)
	assert.Equal(t, 1, a.Total)
	assert.Zero(t, a.Correct)
	assert.Empty(t, a.ResultState)
}

func TestSubmission_ResolvedQuizID(t *testing.T) {
	assert.Equal(t, "id", Submission{QuizID: "id", QuizTitle: "title"}.ResolvedQuizID())
	assert.Equal(t, "title", Submission{QuizTitle: "title"}.ResolvedQuizID())
	assert.Equal(t, "unknown", Submission{}.ResolvedQuizID())
}
