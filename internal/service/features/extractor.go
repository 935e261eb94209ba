// internal/service/features/extractor.go

package features

import (
	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

// Feature column names, in table order
const (
	PositiveRatio         = "positive_ratio"
	NegativeRatio         = "negative_ratio"
	NeutralRatio          = "neutral_ratio"
	TotalComments         = "total_comments"
	Likes                 = "likes"
	EngagementRate        = "engagement_rate"
	LikeRatio             = "like_ratio"
	CommentRatio          = "comment_ratio"
	SentimentScore        = "sentiment_score"
	Duration              = "duration"
	Tags                  = "tags"
	DegreeCentrality      = "degree_centrality"
	BetweennessCentrality = "betweenness_centrality"
	ClosenessCentrality   = "closeness_centrality"
	EigenvectorCentrality = "eigenvector_centrality"
	GrowthPotential       = "growth_potential"
)

// Columns is the fixed feature schema
var Columns = []string{
	PositiveRatio,
	NegativeRatio,
	NeutralRatio,
	TotalComments,
	Likes,
	EngagementRate,
	LikeRatio,
	CommentRatio,
	SentimentScore,
	Duration,
	Tags,
	DegreeCentrality,
	BetweennessCentrality,
	ClosenessCentrality,
	EigenvectorCentrality,
	GrowthPotential,
}

// Extractor builds the feature table for the performance model
type Extractor struct{}

// NewExtractor creates a new feature extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns one row per scoreable video. Videos without statistics
// and comments are skipped, as are repeated video IDs.
func (e *Extractor) Extract(videos []channel.Video, sentiments map[string]analytics.SentimentCount, profile *analytics.CentralityProfile) *analytics.FeatureTable {
	table := &analytics.FeatureTable{
		Columns: Columns,
	}

	seen := make(map[string]bool, len(videos))
	for _, v := range videos {
		if seen[v.ID] || !v.HasActivity() {
			continue
		}
		seen[v.ID] = true

		table.Rows = append(table.Rows, e.row(v, sentiments[v.ID], profile))
	}

	return table
}

func (e *Extractor) row(v channel.Video, counts analytics.SentimentCount, profile *analytics.CentralityProfile) analytics.FeatureRow {
	views := float64(v.Views)
	likes := float64(v.Likes)
	comments := float64(v.CommentCount)

	engagement := CalculateEngagementRate(likes, comments, views)
	likeRatio := ratio(likes, views)
	score := SentimentScoreOf(counts)
	growth := GrowthPotentialOf(engagement, likeRatio, score)

	total := float64(counts.Total())
	degree, betweenness, closeness, eigenvector := profile.Lookup(v.NodeID())

	values := []float64{
		ratio(float64(counts.Positive), total),
		ratio(float64(counts.Negative), total),
		ratio(float64(counts.Neutral), total),
		comments,
		likes,
		engagement,
		likeRatio,
		ratio(comments, views),
		score,
		v.Duration,
		float64(len(v.Tags)),
		degree,
		betweenness,
		closeness,
		eigenvector,
		growth,
	}

	return analytics.FeatureRow{
		VideoID:  v.ID,
		Title:    v.Title,
		Views:    views,
		Likes:    likes,
		Comments: comments,
		Values:   values,
		Target:   views * growth,
	}
}

// CalculateEngagementRate is (likes + comments) / views, 0 without views
func CalculateEngagementRate(likes, comments, views float64) float64 {
	return ratio(likes+comments, views)
}

// SentimentScoreOf is (positive - negative) / max(total, 1)
func SentimentScoreOf(c analytics.SentimentCount) float64 {
	total := c.Total()
	if total < 1 {
		total = 1
	}
	return float64(c.Positive-c.Negative) / float64(total)
}

// GrowthPotentialOf compounds the engagement, like and sentiment boosts
func GrowthPotentialOf(engagementRate, likeRatio, sentimentScore float64) float64 {
	growth := 1.0
	if engagementRate > 0.1 {
		growth *= 1.5
	}
	if likeRatio > 0.05 {
		growth *= 1.3
	}
	if sentimentScore > 0 {
		growth *= 1.2
	}
	return growth
}

func ratio(n, d float64) float64 {
	if d <= 0 {
		return 0
	}
	return n / d
}
