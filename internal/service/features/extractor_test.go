package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

func TestCalculateEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, CalculateEngagementRate(10, 5, 0))
	assert.Equal(t, 0.12, CalculateEngagementRate(100, 20, 1000))
}

func TestGrowthPotential(t *testing.T) {
	tests := []struct {
		name                         string
		engagement, likes, sentiment float64
		want                         float64
	}{
		{"no boosts", 0.01, 0.01, 0, 1.0},
		{"engagement only", 0.12, 0.01, 0, 1.5},
		{"engagement and likes", 0.12, 0.1, 0, 1.95},
		{"all boosts", 0.12, 0.1, 0.5, 1.95 * 1.2},
		{"negative sentiment", 0, 0, -1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrowthPotentialOf(tt.engagement, tt.likes, tt.sentiment)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 1.0)
		})
	}
}

func TestSentimentScoreOf(t *testing.T) {
	assert.Equal(t, 0.0, SentimentScoreOf(analytics.SentimentCount{}))
	assert.InDelta(t, 1.0/3, SentimentScoreOf(analytics.SentimentCount{Positive: 2, Negative: 1}), 1e-12)
	assert.Equal(t, -1.0, SentimentScoreOf(analytics.SentimentCount{Negative: 4}))
}

func TestExtract(t *testing.T) {
	videos := []channel.Video{
		{
			ID:       "a",
			Title:    "Alpha",
			Stats:    channel.Stats{Views: 1000, Likes: 100, CommentCount: 20},
			Duration: 600,
			Tags:     []string{"go", "tutorial"},
		},
		{ID: "idle", Title: "Nothing yet"},
		{ID: "a", Title: "Alpha duplicate", Stats: channel.Stats{Views: 5}},
		{
			ID:          "b",
			Title:       "Beta",
			TopComments: []channel.Comment{{Text: "meh"}},
		},
	}
	sentiments := map[string]analytics.SentimentCount{
		"a": {Positive: 2, Negative: 1, Neutral: 1},
		"b": {Neutral: 1},
	}
	profile := &analytics.CentralityProfile{
		Degree:      map[string]float64{"video_a": 0.5},
		Betweenness: map[string]float64{},
		Closeness:   map[string]float64{"video_a": 0.25},
		Eigenvector: map[string]float64{"video_a": 0.7},
	}

	table := NewExtractor().Extract(videos, sentiments, profile)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, Columns, table.Columns)

	a := table.Rows[0]
	assert.Equal(t, "a", a.VideoID)
	require.Len(t, a.Values, len(Columns))
	assert.Equal(t, 0.5, table.Value(0, PositiveRatio))
	assert.Equal(t, 0.25, table.Value(0, NegativeRatio))
	assert.Equal(t, 20.0, table.Value(0, TotalComments))
	assert.Equal(t, 0.12, table.Value(0, EngagementRate))
	assert.Equal(t, 0.1, table.Value(0, LikeRatio))
	assert.Equal(t, 0.02, table.Value(0, CommentRatio))
	assert.Equal(t, 0.25, table.Value(0, SentimentScore))
	assert.Equal(t, 600.0, table.Value(0, Duration))
	assert.Equal(t, 2.0, table.Value(0, Tags))
	assert.Equal(t, 0.5, table.Value(0, DegreeCentrality))
	assert.Equal(t, 0.0, table.Value(0, BetweennessCentrality))
	assert.Equal(t, 0.25, table.Value(0, ClosenessCentrality))
	assert.Equal(t, 0.7, table.Value(0, EigenvectorCentrality))
	assert.InDelta(t, 1.95*1.2, table.Value(0, GrowthPotential), 1e-12)
	assert.InDelta(t, 1000*1.95*1.2, a.Target, 1e-9)

	b := table.Rows[1]
	assert.Equal(t, "b", b.VideoID)
	assert.Equal(t, 0.0, table.Value(1, EngagementRate))
	assert.Equal(t, 1.0, table.Value(1, NeutralRatio))
	assert.Equal(t, 0.0, table.Value(1, DegreeCentrality))
	assert.Equal(t, 0.0, b.Target)
}

func TestExtractNilProfile(t *testing.T) {
	videos := []channel.Video{{ID: "a", Stats: channel.Stats{Views: 10}}}

	table := NewExtractor().Extract(videos, nil, nil)
	require.Equal(t, 1, table.Len())
	for _, col := range []string{DegreeCentrality, BetweennessCentrality, ClosenessCentrality, EigenvectorCentrality} {
		assert.Zero(t, table.Value(0, col))
	}
}

func TestExtractNoScoreableVideos(t *testing.T) {
	table := NewExtractor().Extract([]channel.Video{{ID: "a"}, {ID: "b"}}, nil, nil)
	assert.Zero(t, table.Len())
}
