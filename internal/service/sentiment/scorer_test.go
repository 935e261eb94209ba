package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chanalytics/internal/domain/analytics"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  analytics.Polarity
	}{
		{"strong positive", 0.9, analytics.Positive},
		{"just above threshold", 0.0501, analytics.Positive},
		{"positive threshold is neutral", 0.05, analytics.Neutral},
		{"zero", 0, analytics.Neutral},
		{"negative threshold is neutral", -0.05, analytics.Neutral},
		{"just below threshold", -0.0501, analytics.Negative},
		{"strong negative", -0.8, analytics.Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.score))
		})
	}
}

func TestScorerVader(t *testing.T) {
	s := NewScorer()

	t.Run("positive", func(t *testing.T) {
		assert.Equal(t, analytics.Positive, Classify(s.Compound("I love this!")))
	})

	t.Run("negative", func(t *testing.T) {
		assert.Equal(t, analytics.Negative, Classify(s.Compound("This is terrible.")))
	})

	t.Run("neutral", func(t *testing.T) {
		assert.Equal(t, analytics.Neutral, Classify(s.Compound("The video is ten minutes long.")))
	})

	t.Run("bounded", func(t *testing.T) {
		for _, text := range []string{"", "LOVE LOVE LOVE!!!", "awful horrible terrible disaster"} {
			c := s.Compound(text)
			assert.GreaterOrEqual(t, c, -1.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	})
}
