// internal/service/sentiment/scorer.go

package sentiment

import (
	"github.com/jonreiter/govader"

	"chanalytics/internal/domain/analytics"
)

// Classification thresholds on the compound polarity score
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scorer is a lexicon based polarity scorer backed by VADER
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewScorer creates a VADER scorer
func NewScorer() *Scorer {
	return &Scorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Compound returns the normalized compound score of text in [-1, 1]
func (s *Scorer) Compound(text string) float64 {
	return s.analyzer.PolarityScores(text).Compound
}

// Classify maps a compound score onto a polarity class
func Classify(score float64) analytics.Polarity {
	switch {
	case score > PositiveThreshold:
		return analytics.Positive
	case score < NegativeThreshold:
		return analytics.Negative
	default:
		return analytics.Neutral
	}
}
