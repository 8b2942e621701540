// Package sm2 implements the SM-2 style review scheduler used for quiz items.
//
// Update is a pure function: it never reads the clock and never touches
// storage. Callers supply the quality signal, the item's current tag and
// the review instant in epoch milliseconds.
package sm2

import (
	"math"

	"github.com/KUROROSUKE/english-learning/internal/domain"
)

// Quality values produced by DeriveQuality. Update accepts any integer.
const (
	QualityLapse   = 2 // incorrect, or free-text score below 4
	QualityPass    = 3 // lowest quality that counts as a successful review
	QualityGood    = 4 // free-text score of 4
	QualityPerfect = 5 // correct, or free-text score of 5
)

// Scheduling constants.
const (
	DefaultEase = 2.5
	MinEase     = 1.3
	MaxEase     = 2.7

	// LapseIntervalDays brings a failed item back after ~28.8 minutes.
	LapseIntervalDays = 0.02
)

// NewCard returns the default state for an item that has never been
// reviewed. Ids are NFC-normalized. It is due immediately.
func NewCard(quizID, itemID, tag string, now int64) domain.Card {
	return domain.Card{
		Key:          domain.CardKey(quizID, itemID),
		QuizID:       domain.Normalize(quizID),
		ItemID:       domain.Normalize(itemID),
		Tag:          tag,
		Reps:         0,
		IntervalDays: 0,
		Ease:         DefaultEase,
		DueTs:        now,
	}
}

// Update applies one review with the given quality to card and returns the
// new state. The due timestamp is recomputed from now, not incremented.
//
// Quality is not range checked; values outside 0-5 run through the same
// formula and the ease clamp keeps the result bounded.
func Update(card domain.Card, quality int, tag string, now int64) domain.Card {
	if quality < QualityPass {
		card.Reps = 0
		card.IntervalDays = LapseIntervalDays
	} else {
		card.Reps++
		switch card.Reps {
		case 1:
			card.IntervalDays = 1
		case 2:
			card.IntervalDays = 3
		default:
			// previous ease, before this review's adjustment
			card.IntervalDays = card.IntervalDays * card.Ease
		}
	}

	card.Ease = nextEase(card.Ease, quality)
	card.DueTs = dueAt(now, card.IntervalDays)
	card.LastQuality = quality
	card.LastTs = now
	card.Tag = tag

	return card
}

// maxOffsetMillis bounds the float-to-int conversion in dueAt; it is
// exactly representable as a float64.
const maxOffsetMillis = 1 << 62

// dueAt returns now plus days in milliseconds, saturating at
// math.MaxInt64 once repeated successes push the interval past it.
func dueAt(now int64, days float64) int64 {
	off := math.Round(days * domain.MillisPerDay)
	if off >= maxOffsetMillis {
		return math.MaxInt64
	}
	ms := int64(off)
	if ms > 0 && now > math.MaxInt64-ms {
		return math.MaxInt64
	}
	return now + ms
}

// nextEase is the SM-2 easiness update clamped to [MinEase, MaxEase].
func nextEase(ease float64, quality int) float64 {
	miss := float64(5 - quality)
	ease += 0.1 - miss*(0.08+miss*0.02)
	return math.Max(MinEase, math.Min(MaxEase, ease))
}
