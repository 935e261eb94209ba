// internal/domain/analytics/model.go

package analytics

import (
	"fmt"
	"time"
)

// Polarity is the sentiment class of a single comment
type Polarity int

const (
	Neutral Polarity = iota
	Positive
	Negative
)

// String returns the report label of the polarity
func (p Polarity) String() string {
	switch p {
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	default:
		return "Neutral"
	}
}

// SentimentCount holds classified comment counts
type SentimentCount struct {
	Positive int `json:"Positive"`
	Negative int `json:"Negative"`
	Neutral  int `json:"Neutral"`
}

// Add increments the counter matching the polarity
func (c *SentimentCount) Add(p Polarity) {
	switch p {
	case Positive:
		c.Positive++
	case Negative:
		c.Negative++
	default:
		c.Neutral++
	}
}

// Merge adds other into c
func (c *SentimentCount) Merge(other SentimentCount) {
	c.Positive += other.Positive
	c.Negative += other.Negative
	c.Neutral += other.Neutral
}

// Total returns the number of classified comments
func (c SentimentCount) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// Slot is a (weekday, hour) bucket of comment activity
type Slot struct {
	Weekday int
	Hour    int
}

// String renders the slot as "<weekday>-<hour>"
func (s Slot) String() string {
	return fmt.Sprintf("%d-%d", s.Weekday, s.Hour)
}

// Before orders slots by weekday then hour
func (s Slot) Before(other Slot) bool {
	if s.Weekday != other.Weekday {
		return s.Weekday < other.Weekday
	}
	return s.Hour < other.Hour
}

// HourlyActivity counts comments per slot
type HourlyActivity map[Slot]int

// SentimentSummary is the output of comment aggregation for a channel
type SentimentSummary struct {
	PerVideo map[string]SentimentCount
	Totals   SentimentCount
	Activity HourlyActivity
}

// Edge is a weighted undirected edge of the similarity graph
type Edge struct {
	From   string
	To     string
	Weight float64
}

// SimilarityGraph relates videos to their categories and to each other
type SimilarityGraph struct {
	Nodes []string
	Edges []Edge
}

// HasNode reports whether name is a node of the graph
func (g *SimilarityGraph) HasNode(name string) bool {
	if g == nil {
		return false
	}
	for _, n := range g.Nodes {
		if n == name {
			return true
		}
	}
	return false
}

// CentralityProfile holds per-node centrality measures keyed by node name.
// A measure that could not be computed is an empty map.
type CentralityProfile struct {
	Degree      map[string]float64 `json:"degree"`
	Betweenness map[string]float64 `json:"betweenness"`
	Closeness   map[string]float64 `json:"closeness"`
	Eigenvector map[string]float64 `json:"eigenvector"`
}

// Lookup returns the four measures for a node, zero when absent.
// A nil profile yields zeros.
func (p *CentralityProfile) Lookup(node string) (degree, betweenness, closeness, eigenvector float64) {
	if p == nil {
		return 0, 0, 0, 0
	}
	return p.Degree[node], p.Betweenness[node], p.Closeness[node], p.Eigenvector[node]
}

// FeatureRow is one video's feature vector and regression target
type FeatureRow struct {
	VideoID  string
	Title    string
	Views    float64
	Likes    float64
	Comments float64
	Values   []float64
	Target   float64
}

// FeatureTable is a rectangular feature matrix with a fixed column schema
type FeatureTable struct {
	Columns []string
	Rows    []FeatureRow
}

// Len returns the number of rows
func (t *FeatureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the index of a named column or -1
func (t *FeatureTable) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the named feature of row i
func (t *FeatureTable) Value(i int, name string) float64 {
	idx := t.Column(name)
	if idx < 0 {
		return 0
	}
	return t.Rows[i].Values[idx]
}

// Matrix returns the feature values as row slices
func (t *FeatureTable) Matrix() [][]float64 {
	x := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		x[i] = r.Values
	}
	return x
}

// Targets returns the target vector parallel to the rows
func (t *FeatureTable) Targets() []float64 {
	y := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		y[i] = r.Target
	}
	return y
}

// PredictionResult maps video ids to predicted view counts
type PredictionResult struct {
	Predictions map[string]int64
	Fallback    bool
}

// VideoSentiment is one row of the per-video report section
type VideoSentiment struct {
	VideoID     string  `json:"video_id"`
	VideoTitle  string  `json:"video_title"`
	Views       int64   `json:"views"`
	Positive    int     `json:"Positive"`
	Negative    int     `json:"Negative"`
	Neutral     int     `json:"Neutral"`
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
}

// EngagementMetrics is the per-video engagement block of a report
type EngagementMetrics struct {
	EngagementRate  float64 `json:"engagement_rate"`
	ViewToLikeRatio float64 `json:"view_to_like_ratio"`
	Views           int64   `json:"views"`
	Likes           int64   `json:"likes"`
	TotalComments   int64   `json:"total_comments"`
}

// Percentages is the channel-wide sentiment distribution
type Percentages struct {
	Positive float64 `json:"Positive"`
	Negative float64 `json:"Negative"`
	Neutral  float64 `json:"Neutral"`
}

// Report is the analytics report produced for one channel
type Report struct {
	ID                   string                       `json:"id"`
	Channel              string                       `json:"channel"`
	GeneratedAt          time.Time                    `json:"generated_at"`
	Percentages          Percentages                  `json:"percentages"`
	VideoSentiments      []VideoSentiment             `json:"video_sentiments"`
	HourlySentiment      map[string]int               `json:"hourly_sentiment"`
	BestTime             string                       `json:"best_time"`
	EngagementMetrics    map[string]EngagementMetrics `json:"engagement_metrics"`
	PredictedPerformance map[string]int64             `json:"predicted_performance"`
	Centrality           *CentralityProfile           `json:"centrality,omitempty"`
	PredictionFallback   bool                         `json:"prediction_fallback"`
}

// ReportSummary is the lightweight view of a stored report
type ReportSummary struct {
	ID                 string    `json:"id"`
	Channel            string    `json:"channel"`
	BestTime           string    `json:"best_time"`
	Videos             int       `json:"videos"`
	PredictionFallback bool      `json:"prediction_fallback"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Summary returns the lightweight view of the report
func (r *Report) Summary() ReportSummary {
	return ReportSummary{
		ID:                 r.ID,
		Channel:            r.Channel,
		BestTime:           r.BestTime,
		Videos:             len(r.VideoSentiments),
		PredictionFallback: r.PredictionFallback,
		GeneratedAt:        r.GeneratedAt,
	}
}
