package domain

import "strings"

// UntaggedTag is the bucket used for items whose tag list is empty.
const UntaggedTag = "(untagged)"

// KeySeparator joins quiz and item ids in card keys and analytics keys.
const KeySeparator = "::"

// MillisPerDay converts interval days to due-timestamp offsets.
const MillisPerDay = 86_400_000

// Card is the persisted scheduling state for one (quiz, item) pair.
type Card struct {
	Key          string  `json:"key"`
	QuizID       string  `json:"quiz_id"`
	ItemID       string  `json:"item_id"`
	Tag          string  `json:"tag"`
	Reps         int     `json:"reps"`
	IntervalDays float64 `json:"interval_days"`
	Ease         float64 `json:"ease"`
	LastQuality  int     `json:"last_quality"`
	LastTs       int64   `json:"last_ts"`
	DueTs        int64   `json:"due_ts"`
}

// CardKey builds the composite key for a (quiz, item) pair.
func CardKey(quizID, itemID string) string {
	return Normalize(quizID) + KeySeparator + Normalize(itemID)
}

// SplitCardKey is the inverse of CardKey. The quiz part ends at the first
// separator; item ids may themselves contain "::".
func SplitCardKey(key string) (quizID, itemID string, ok bool) {
	return strings.Cut(key, KeySeparator)
}

// PrimaryTag returns the normalized first tag, or UntaggedTag for an empty list.
func PrimaryTag(tags []string) string {
	if len(tags) == 0 {
		return UntaggedTag
	}
	return Normalize(tags[0])
}

// IsDue reports whether the card is eligible for review at asOf.
func (c Card) IsDue(asOf int64) bool {
	return c.DueTs <= asOf
}
