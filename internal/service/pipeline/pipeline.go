// internal/service/pipeline/pipeline.go

package pipeline

import (
	"context"
	"fmt"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
	"chanalytics/internal/logging"
	"chanalytics/internal/service/features"
	"chanalytics/internal/service/network"
	"chanalytics/internal/service/predict"
	"chanalytics/internal/service/report"
	"chanalytics/internal/service/sentiment"
)

// SentimentStage classifies comments and buckets their activity
type SentimentStage interface {
	Aggregate(videos []channel.Video) analytics.SentimentSummary
}

// GraphStage builds the similarity graph
type GraphStage interface {
	Build(videos []channel.Video) *analytics.SimilarityGraph
}

// CentralityStage computes the centrality profile of a graph
type CentralityStage interface {
	Analyze(g *analytics.SimilarityGraph) *analytics.CentralityProfile
}

// FeatureStage builds the feature table
type FeatureStage interface {
	Extract(videos []channel.Video, sentiments map[string]analytics.SentimentCount, profile *analytics.CentralityProfile) *analytics.FeatureTable
}

// PredictionStage fits the performance model and predicts views
type PredictionStage interface {
	Predict(ctx context.Context, table *analytics.FeatureTable) (analytics.PredictionResult, error)
}

// ReportStage assembles the final report
type ReportStage interface {
	Assemble(in report.Input) *analytics.Report
}

// Stages groups the pipeline collaborators
type Stages struct {
	Sentiment  SentimentStage
	Graph      GraphStage
	Centrality CentralityStage
	Features   FeatureStage
	Prediction PredictionStage
	Report     ReportStage
}

// Config contains the tunables of the default stages
type Config struct {
	CalendarWeekday     bool
	SimilarityThreshold float64
	EigenvectorMaxIter  int
	Forest              predict.ForestConfig
	Predictor           predict.PredictorConfig
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: network.DefaultBuilderConfig().SimilarityThreshold,
		EigenvectorMaxIter:  network.DefaultAnalyzerConfig().EigenvectorMaxIter,
		Forest:              predict.DefaultForestConfig(),
		Predictor:           predict.DefaultPredictorConfig(),
	}
}

// Pipeline runs the channel analytics stages in order
type Pipeline struct {
	stages Stages
}

// New creates a pipeline from explicit stages
func New(stages Stages) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// NewDefault wires the standard stages around a polarity scorer
func NewDefault(scorer analytics.PolarityScorer, cfg Config) *Pipeline {
	builderCfg := network.DefaultBuilderConfig()
	if cfg.SimilarityThreshold > 0 {
		builderCfg.SimilarityThreshold = cfg.SimilarityThreshold
	}

	analyzerCfg := network.DefaultAnalyzerConfig()
	if cfg.EigenvectorMaxIter > 0 {
		analyzerCfg.EigenvectorMaxIter = cfg.EigenvectorMaxIter
	}

	return New(Stages{
		Sentiment:  sentiment.NewAggregator(scorer, sentiment.AggregatorConfig{CalendarWeekday: cfg.CalendarWeekday}),
		Graph:      network.NewBuilder(builderCfg),
		Centrality: network.NewAnalyzer(analyzerCfg),
		Features:   features.NewExtractor(),
		Prediction: predict.NewPredictor(predict.ForestFactory(cfg.Forest), cfg.Predictor),
		Report:     report.NewAssembler(),
	})
}

// Run produces the analytics report of a channel. It returns
// ErrInsufficientData when no video can be scored, the context error when
// ctx ends between stages, and ErrUnexpected for anything that panics.
func (p *Pipeline) Run(ctx context.Context, ch channel.Channel) (r *analytics.Report, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(ctx).Error().Interface("panic", rec).Str("channel", ch.Title).Msg("Pipeline panicked")
			r = nil
			err = fmt.Errorf("%w: %v", analytics.ErrUnexpected, rec)
		}
	}()

	summary := p.stages.Sentiment.Aggregate(ch.Videos)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := p.stages.Centrality.Analyze(p.stages.Graph.Build(ch.Videos))
	if profile == nil {
		logging.Ctx(ctx).Debug().Str("channel", ch.Title).Msg("No centrality available")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table := p.stages.Features.Extract(ch.Videos, summary.PerVideo, profile)
	if table.Len() == 0 {
		return nil, fmt.Errorf("channel %q: %w", ch.Title, analytics.ErrInsufficientData)
	}

	predictions, err := p.stages.Prediction.Predict(ctx, table)
	if err != nil {
		return nil, err
	}

	return p.stages.Report.Assemble(report.Input{
		Channel:     ch,
		Sentiment:   summary,
		Centrality:  profile,
		Predictions: predictions,
	}), nil
}
