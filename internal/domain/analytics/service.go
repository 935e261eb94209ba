// internal/domain/analytics/service.go

package analytics

import (
	"context"

	"chanalytics/internal/domain/channel"
)

// PolarityScorer scores text into a compound polarity in [-1, 1]
type PolarityScorer interface {
	Compound(text string) float64
}

// Service defines the channel analytics use cases
type Service interface {
	// AnalyzeChannel loads a channel by title and produces a report
	AnalyzeChannel(ctx context.Context, title string) (*Report, error)

	// AnalyzeSnapshot produces a report for a supplied channel record
	AnalyzeSnapshot(ctx context.Context, ch channel.Channel) (*Report, error)

	// GetReport returns a stored report by ID
	GetReport(ctx context.Context, id string) (*Report, error)

	// ListReports returns recent report summaries for a channel
	ListReports(ctx context.Context, title string, limit int) ([]ReportSummary, error)
}

// ReportStore persists generated reports
type ReportStore interface {
	SaveReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, channel string, limit int) ([]ReportSummary, error)
}

// Publisher announces completed reports
type Publisher interface {
	PublishReport(ctx context.Context, r Report) error
}
