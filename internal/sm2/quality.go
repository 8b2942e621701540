package sm2

import "github.com/KUROROSUKE/english-learning/internal/domain"

// DeriveQuality maps a graded item to a quality signal.
//
// Items with a numeric score (out of 5) use the score: 5 or more is perfect,
// 4 or more is good, anything else is a lapse. Items without a score use
// correctness alone. The mapping is stepwise, not continuous.
func DeriveQuality(r domain.ItemResult) int {
	if r.Score != nil {
		switch s := *r.Score; {
		case s >= 5:
			return QualityPerfect
		case s >= 4:
			return QualityGood
		default:
			return QualityLapse
		}
	}
	if r.Correct {
		return QualityPerfect
	}
	return QualityLapse
}
