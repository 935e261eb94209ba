// internal/service/analytics/service.go

package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
)

// Runner executes the analytics pipeline for one channel
type Runner interface {
	Run(ctx context.Context, ch channel.Channel) (*analytics.Report, error)
}

// ServiceConfig contains configuration for the analytics service
type ServiceConfig struct {
	DefaultListLimit int
	MaxListLimit     int
}

// Service implements the analytics.Service interface
type Service struct {
	source    channel.Source
	snapshots channel.Saver
	runner    Runner
	store     analytics.ReportStore
	publisher analytics.Publisher
	config    ServiceConfig
}

var _ analytics.Service = (*Service)(nil)

// NewService creates a new analytics service. snapshots, store and
// publisher may be nil; the matching side effect is then skipped.
func NewService(
	source channel.Source,
	snapshots channel.Saver,
	runner Runner,
	store analytics.ReportStore,
	publisher analytics.Publisher,
	config ServiceConfig,
) *Service {
	if config.DefaultListLimit <= 0 {
		config.DefaultListLimit = 20
	}
	if config.MaxListLimit < config.DefaultListLimit {
		config.MaxListLimit = config.DefaultListLimit
	}

	return &Service{
		source:    source,
		snapshots: snapshots,
		runner:    runner,
		store:     store,
		publisher: publisher,
		config:    config,
	}
}

// AnalyzeChannel loads a channel snapshot from the source and analyzes it
func (s *Service) AnalyzeChannel(ctx context.Context, title string) (*analytics.Report, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, analytics.ErrMissingInput
	}

	ch, err := s.source.GetChannel(ctx, title)
	if err != nil {
		if errors.Is(err, analytics.ErrNotFound) {
			metrics.PipelineRuns.WithLabelValues("not_found").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("error fetching channel: %w", err)
	}
	if ch == nil || len(ch.Videos) == 0 {
		metrics.PipelineRuns.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("channel %q has no videos: %w", title, analytics.ErrNotFound)
	}

	return s.analyze(ctx, *ch)
}

// AnalyzeSnapshot analyzes a channel record supplied by the caller. The
// record replaces the stored snapshot of the channel.
func (s *Service) AnalyzeSnapshot(ctx context.Context, ch channel.Channel) (*analytics.Report, error) {
	if strings.TrimSpace(ch.Title) == "" {
		return nil, analytics.ErrMissingInput
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveChannel(ctx, ch); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("channel", ch.Title).Msg("Failed to save channel snapshot")
		}
	}

	return s.analyze(ctx, ch)
}

func (s *Service) analyze(ctx context.Context, ch channel.Channel) (*analytics.Report, error) {
	start := time.Now()

	r, err := s.runner.Run(ctx, ch)
	metrics.RecordPipelineRun(outcomeOf(err), len(ch.Videos), time.Since(start))
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("channel", ch.Title).
		Str("report_id", r.ID).
		Int("videos", len(ch.Videos)).
		Str("best_time", r.BestTime).
		Bool("prediction_fallback", r.PredictionFallback).
		Dur("duration", time.Since(start)).
		Msg("Report generated")

	if s.store != nil {
		if err := s.store.SaveReport(ctx, *r); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("report_id", r.ID).Msg("Failed to save report")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, *r); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("report_id", r.ID).Msg("Failed to publish report event")
		}
	}

	return r, nil
}

// GetReport returns a stored report by ID
func (s *Service) GetReport(ctx context.Context, id string) (*analytics.Report, error) {
	if s.store == nil {
		return nil, fmt.Errorf("report %s: %w", id, analytics.ErrNotFound)
	}
	return s.store.GetReport(ctx, id)
}

// ListReports returns recent report summaries for a channel
func (s *Service) ListReports(ctx context.Context, title string, limit int) ([]analytics.ReportSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, analytics.ErrMissingInput
	}
	if s.store == nil {
		return []analytics.ReportSummary{}, nil
	}

	if limit <= 0 {
		limit = s.config.DefaultListLimit
	}
	if limit > s.config.MaxListLimit {
		limit = s.config.MaxListLimit
	}

	return s.store.ListReports(ctx, title, limit)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, analytics.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
