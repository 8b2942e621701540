package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

// ErrInvalidSubmission is returned for a submission that fails validation.
var ErrInvalidSubmission = errors.New("invalid submission")

// Submission is one graded quiz attempt as handed over by a grader.
// Items are in quiz order; Results holds the verdict for each graded item.
type Submission struct {
	QuizID        string                       `json:"quiz_id" yaml:"quiz_id"`
	QuizTitle     string                       `json:"quiz_title" yaml:"quiz_title"`
	QuizSourceURL string                       `json:"quiz_source_url" yaml:"quiz_source_url" validate:"omitempty,url"`
	Timestamp     int64                        `json:"timestamp,omitempty" yaml:"timestamp" validate:"gte=0"`
	Items         []Item                       `json:"items" yaml:"items" validate:"required,min=1,unique=ID,dive"`
	Answers       map[string]any               `json:"answers,omitempty" yaml:"answers"`
	Results       map[string]domain.ItemResult `json:"results" yaml:"results"`
}

// Item is the grading-time metadata of one quiz item.
type Item struct {
	ID   string   `json:"id" yaml:"id" validate:"required"`
	Type string   `json:"type" yaml:"type"`
	Tags []string `json:"tags" yaml:"tags" validate:"dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeSubmission reads a YAML or JSON submission. Unknown fields are
// rejected. The result is not validated.
func DecodeSubmission(r io.Reader) (Submission, error) {
	var sub Submission
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sub); err != nil {
		if errors.Is(err, io.EOF) {
			return Submission{}, fmt.Errorf("%w: empty document", ErrInvalidSubmission)
		}
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return sub, nil
}

// Validate checks field constraints and that every result names a
// submitted item.
func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	known := make(map[string]bool, len(s.Items))
	for _, it := range s.Items {
		known[it.ID] = true
	}
	for id := range s.Results {
		if !known[id] {
			return fmt.Errorf("%w: result for unknown item %q", ErrInvalidSubmission, id)
		}
	}
	return nil
}

// ResolvedQuizID is QuizID, falling back to QuizTitle and then "unknown".
func (s Submission) ResolvedQuizID() string {
	switch {
	case s.QuizID != "":
		return s.QuizID
	case s.QuizTitle != "":
		return s.QuizTitle
	default:
		return "unknown"
	}
}

// Attempt builds the attempt record. now is used when Timestamp is unset.
//
// Total counts every submitted item, graded or not. Scores are summed
// rounded to whole points.
func (s Submission) Attempt(now int64) (domain.Attempt, error) {
	a := domain.Attempt{
		Timestamp:     s.Timestamp,
		QuizID:        s.ResolvedQuizID(),
		QuizTitle:     s.QuizTitle,
		QuizSourceURL: s.QuizSourceURL,
		Total:         len(s.Items),
		ItemMeta:      make(map[string]domain.ItemMeta, len(s.Items)),
		UserAnswers:   make(map[string]json.RawMessage, len(s.Answers)),
		ResultState:   make(map[string]domain.ItemResult, len(s.Results)),
	}
	if a.Timestamp == 0 {
		a.Timestamp = now
	}

	for i, it := range s.Items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		a.ItemMeta[it.ID] = domain.ItemMeta{Tags: tags, Type: it.Type, Index: i}

		r, ok := s.Results[it.ID]
		if !ok {
			continue
		}
		a.ResultState[it.ID] = r
		if r.Correct {
			a.Correct++
		}
		if r.Score != nil {
			a.ScoreSum += int(math.Round(*r.Score))
			a.ScoreItems++
		}
	}

	for id, v := range s.Answers {
		raw, err := json.Marshal(v)
		if err != nil {
			return domain.Attempt{}, fmt.Errorf("%w: answer for %q: %v", ErrInvalidSubmission, id, err)
		}
		a.UserAnswers[id] = raw
	}

	return a, nil
}
