package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

// fixedScorer returns preset scores per text and zero otherwise
type fixedScorer map[string]float64

func (f fixedScorer) Compound(text string) float64 {
	return f[text]
}

// roundTripScorer pins "It's okay." to neutral. VADER scores it 0.2263,
// which would classify it as positive.
var roundTripScorer = fixedScorer{
	"I love this!":      0.6696,
	"This is terrible.": -0.4767,
	"It's okay.":        0.0,
}

func TestAggregateRoundTrip(t *testing.T) {
	agg := NewAggregator(roundTripScorer, AggregatorConfig{})

	videos := []channel.Video{
		{
			ID: "v1",
			TopComments: []channel.Comment{
				{Text: "I love this!", PublishedAt: "2024-03-15T14:30:00Z"},
				{Text: "This is terrible.", PublishedAt: "2024-03-15T14:45:00Z"},
				{Text: "It's okay.", PublishedAt: "2024-03-16T09:00:00Z"},
			},
		},
	}

	summary := agg.Aggregate(videos)

	assert.Equal(t, analytics.SentimentCount{Positive: 1, Negative: 1, Neutral: 1}, summary.PerVideo["v1"])
	assert.Equal(t, analytics.SentimentCount{Positive: 1, Negative: 1, Neutral: 1}, summary.Totals)

	// 15 % 7 == 1, 16 % 7 == 2
	assert.Equal(t, analytics.HourlyActivity{
		{Weekday: 1, Hour: 14}: 2,
		{Weekday: 2, Hour: 9}:  1,
	}, summary.Activity)
}

func TestAggregateSumInvariant(t *testing.T) {
	agg := NewAggregator(NewScorer(), AggregatorConfig{})

	comments := []channel.Comment{
		{Text: "Great video, loved it"},
		{Text: ""},
		{Text: "   "},
		{Text: "worst upload ever, awful"},
		{Text: "The video is ten minutes long."},
		{Text: "nice"},
	}

	counts := agg.ScoreComments(comments, nil)
	assert.Equal(t, 5, counts.Total())
}

func TestScoreCommentsWhitespaceText(t *testing.T) {
	agg := NewAggregator(fixedScorer{"great": 0.62}, AggregatorConfig{})

	counts := agg.ScoreComments([]channel.Comment{
		{Text: "   "},
		{Text: "great"},
	}, nil)

	assert.Equal(t, analytics.SentimentCount{Positive: 1, Neutral: 1}, counts)
}

func TestAggregateTimestamps(t *testing.T) {
	t.Run("unparseable timestamps are skipped", func(t *testing.T) {
		agg := NewAggregator(fixedScorer{}, AggregatorConfig{})
		activity := make(analytics.HourlyActivity)

		counts := agg.ScoreComments([]channel.Comment{
			{Text: "a", PublishedAt: "not a timestamp"},
			{Text: "b", PublishedAt: ""},
			{Text: "c", PublishedAt: "2024-01-07T23:59:59Z"},
		}, activity)

		assert.Equal(t, 3, counts.Neutral)
		assert.Equal(t, analytics.HourlyActivity{{Weekday: 0, Hour: 23}: 1}, activity)
	})

	t.Run("dates without a clock time are skipped", func(t *testing.T) {
		agg := NewAggregator(fixedScorer{}, AggregatorConfig{})
		activity := make(analytics.HourlyActivity)

		counts := agg.ScoreComments([]channel.Comment{
			{Text: "a", PublishedAt: "2024-01-15"},
			{Text: "b", PublishedAt: "1705276800"},
		}, activity)

		assert.Equal(t, 2, counts.Neutral)
		assert.Empty(t, activity)
	})

	t.Run("empty text still buckets its timestamp", func(t *testing.T) {
		agg := NewAggregator(fixedScorer{}, AggregatorConfig{})
		activity := make(analytics.HourlyActivity)

		counts := agg.ScoreComments([]channel.Comment{
			{Text: "", PublishedAt: "2024-02-10T08:00:00Z"},
		}, activity)

		assert.Equal(t, 0, counts.Total())
		assert.Equal(t, 1, activity[analytics.Slot{Weekday: 3, Hour: 8}])
	})

	t.Run("hour is taken as written", func(t *testing.T) {
		agg := NewAggregator(fixedScorer{}, AggregatorConfig{})
		activity := make(analytics.HourlyActivity)

		agg.ScoreComments([]channel.Comment{
			{Text: "x", PublishedAt: "2024-02-10T08:00:00+05:30"},
		}, activity)

		assert.Equal(t, 1, activity[analytics.Slot{Weekday: 3, Hour: 8}])
	})

	t.Run("calendar weekday", func(t *testing.T) {
		agg := NewAggregator(fixedScorer{}, AggregatorConfig{CalendarWeekday: true})
		activity := make(analytics.HourlyActivity)

		// 2024-03-15 is a Friday
		agg.ScoreComments([]channel.Comment{
			{Text: "x", PublishedAt: "2024-03-15T14:30:00Z"},
		}, activity)

		assert.Equal(t, analytics.HourlyActivity{{Weekday: 4, Hour: 14}: 1}, activity)
	})
}

func TestAggregateNoComments(t *testing.T) {
	agg := NewAggregator(NewScorer(), AggregatorConfig{})

	summary := agg.Aggregate([]channel.Video{{ID: "a"}, {ID: "b"}})

	require.Len(t, summary.PerVideo, 2)
	assert.Equal(t, 0, summary.Totals.Total())
	assert.Empty(t, summary.Activity)
}

func TestAggregateDuplicateVideoIDs(t *testing.T) {
	agg := NewAggregator(roundTripScorer, AggregatorConfig{})

	summary := agg.Aggregate([]channel.Video{
		{ID: "a", TopComments: []channel.Comment{{Text: "I love this!"}}},
		{ID: "a", TopComments: []channel.Comment{{Text: "This is terrible."}}},
	})

	assert.Equal(t, analytics.SentimentCount{Positive: 1}, summary.PerVideo["a"])
	assert.Equal(t, analytics.SentimentCount{Positive: 1}, summary.Totals)
}
