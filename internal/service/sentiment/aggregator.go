// internal/service/sentiment/aggregator.go

package sentiment

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

// AggregatorConfig contains configuration for comment aggregation
type AggregatorConfig struct {
	// CalendarWeekday buckets activity by the real weekday (Monday = 0)
	// instead of day-of-month modulo 7.
	CalendarWeekday bool
}

// Aggregator classifies comments and buckets their timestamps
type Aggregator struct {
	scorer analytics.PolarityScorer
	config AggregatorConfig
}

// NewAggregator creates a new aggregator around a polarity scorer
func NewAggregator(scorer analytics.PolarityScorer, config AggregatorConfig) *Aggregator {
	return &Aggregator{
		scorer: scorer,
		config: config,
	}
}

// Aggregate scores every comment of every video. Per-video counts are
// keyed by video ID; the first occurrence of a duplicated ID wins.
func (a *Aggregator) Aggregate(videos []channel.Video) analytics.SentimentSummary {
	summary := analytics.SentimentSummary{
		PerVideo: make(map[string]analytics.SentimentCount, len(videos)),
		Activity: make(analytics.HourlyActivity),
	}

	for _, v := range videos {
		if _, seen := summary.PerVideo[v.ID]; seen {
			continue
		}

		counts := a.ScoreComments(v.TopComments, summary.Activity)
		summary.PerVideo[v.ID] = counts
		summary.Totals.Merge(counts)
	}

	return summary
}

// ScoreComments classifies comments and records their slots into activity.
// Comments with empty text are not classified but their timestamps still
// count.
func (a *Aggregator) ScoreComments(comments []channel.Comment, activity analytics.HourlyActivity) analytics.SentimentCount {
	var counts analytics.SentimentCount

	for _, c := range comments {
		if c.Text != "" {
			counts.Add(Classify(a.scorer.Compound(c.Text)))
		}

		if activity == nil {
			continue
		}
		if slot, ok := a.slotOf(c.PublishedAt); ok {
			activity[slot]++
		}
	}

	return counts
}

// slotOf derives the activity slot from a timestamp. The hour is taken as
// written in the timestamp, without converting its offset to UTC. Dates
// without a clock time have no hour and are skipped.
func (a *Aggregator) slotOf(publishedAt string) (analytics.Slot, bool) {
	publishedAt = strings.TrimSpace(publishedAt)
	if !strings.Contains(publishedAt, ":") {
		return analytics.Slot{}, false
	}

	ts, err := dateparse.ParseIn(publishedAt, time.UTC)
	if err != nil {
		return analytics.Slot{}, false
	}

	weekday := ts.Day() % 7
	if a.config.CalendarWeekday {
		weekday = (int(ts.Weekday()) + 6) % 7
	}

	return analytics.Slot{Weekday: weekday, Hour: ts.Hour()}, true
}
