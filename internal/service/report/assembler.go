// internal/service/report/assembler.go

package report

import (
	"math"
	"time"

	"github.com/google/uuid"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
	"chanalytics/internal/service/features"
)

// UnknownBestTime is reported when no comment carried a usable timestamp
const UnknownBestTime = "Unknown:00"

// Input gathers the products of the pipeline stages
type Input struct {
	Channel     channel.Channel
	Sentiment   analytics.SentimentSummary
	Centrality  *analytics.CentralityProfile
	Predictions analytics.PredictionResult
}

// Assembler builds analytics reports
type Assembler struct {
	now   func() time.Time
	newID func() string
}

// NewAssembler creates a new report assembler
func NewAssembler() *Assembler {
	return &Assembler{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Assemble builds the report. Per-video maps are keyed by title, so a
// later video with the same title replaces an earlier one.
func (a *Assembler) Assemble(in Input) *analytics.Report {
	r := &analytics.Report{
		ID:                   a.newID(),
		Channel:              in.Channel.Title,
		GeneratedAt:          a.now().UTC(),
		Percentages:          Percentages(in.Sentiment.Totals),
		VideoSentiments:      []analytics.VideoSentiment{},
		HourlySentiment:      make(map[string]int, len(in.Sentiment.Activity)),
		BestTime:             BestTime(in.Sentiment.Activity),
		EngagementMetrics:    make(map[string]analytics.EngagementMetrics),
		PredictedPerformance: make(map[string]int64),
		Centrality:           in.Centrality,
		PredictionFallback:   in.Predictions.Fallback,
	}

	for slot, count := range in.Sentiment.Activity {
		r.HourlySentiment[slot.String()] = count
	}

	seen := make(map[string]bool, len(in.Channel.Videos))
	for _, v := range in.Channel.Videos {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true

		counts := in.Sentiment.PerVideo[v.ID]
		degree, betweenness, closeness, _ := in.Centrality.Lookup(v.NodeID())

		r.VideoSentiments = append(r.VideoSentiments, analytics.VideoSentiment{
			VideoID:     v.ID,
			VideoTitle:  titleOf(v),
			Views:       v.Views,
			Positive:    counts.Positive,
			Negative:    counts.Negative,
			Neutral:     counts.Neutral,
			Degree:      round(degree, 4),
			Betweenness: round(betweenness, 4),
			Closeness:   round(closeness, 4),
		})

		views := float64(v.Views)
		likes := float64(v.Likes)
		comments := float64(v.CommentCount)

		likeRatio := 0.0
		if views > 0 {
			likeRatio = likes / views
		}

		r.EngagementMetrics[titleOf(v)] = analytics.EngagementMetrics{
			EngagementRate:  round(features.CalculateEngagementRate(likes, comments, views), 3),
			ViewToLikeRatio: round(likeRatio, 3),
			Views:           v.Views,
			Likes:           v.Likes,
			TotalComments:   v.CommentCount,
		}

		if pred, ok := in.Predictions.Predictions[v.ID]; ok {
			r.PredictedPerformance[titleOf(v)] = pred
		}
	}

	return r
}

// Percentages converts counts to percentages of the classified total,
// rounded to 2 decimals. The total is floored at 1.
func Percentages(c analytics.SentimentCount) analytics.Percentages {
	total := float64(c.Total())
	if total < 1 {
		total = 1
	}

	return analytics.Percentages{
		Positive: round(float64(c.Positive)/total*100, 2),
		Negative: round(float64(c.Negative)/total*100, 2),
		Neutral:  round(float64(c.Neutral)/total*100, 2),
	}
}

// BestTime returns "<weekday>-<hour>:00" for the busiest slot. Ties go to
// the earliest slot by weekday then hour.
func BestTime(activity analytics.HourlyActivity) string {
	var (
		best  analytics.Slot
		count int
		found bool
	)

	for slot, c := range activity {
		if !found || c > count || (c == count && slot.Before(best)) {
			best, count, found = slot, c, true
		}
	}

	if !found {
		return UnknownBestTime
	}
	return best.String() + ":00"
}

func titleOf(v channel.Video) string {
	if v.Title == "" {
		return "Unknown Video"
	}
	return v.Title
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
