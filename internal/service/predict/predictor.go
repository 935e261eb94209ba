// internal/service/predict/predictor.go

package predict

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
	"chanalytics/internal/service/features"
)

// Regressor is a regression model fit from scratch on every call
type Regressor interface {
	Fit(ctx context.Context, x [][]float64, y []float64) error
	Predict(x [][]float64) ([]float64, error)
}

// ModelFactory creates a fresh, untrained regressor
type ModelFactory func() Regressor

// ForestFactory returns a factory of random forests with the given config
func ForestFactory(config ForestConfig) ModelFactory {
	return func() Regressor {
		return NewForest(config)
	}
}

// PredictorConfig contains configuration for performance prediction
type PredictorConfig struct {
	TestFraction    float64
	Seed            int64
	AverageBoost    float64
	EngagementBoost float64
	SentimentBoost  float64
	FloorFactor     float64
	FallbackFactor  float64
}

// DefaultPredictorConfig returns the default predictor configuration
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		TestFraction:    0.2,
		Seed:            42,
		AverageBoost:    1.2,
		EngagementBoost: 1.5,
		SentimentBoost:  1.3,
		FloorFactor:     1.1,
		FallbackFactor:  1.2,
	}
}

// Predictor estimates per-video view counts from the feature table
type Predictor struct {
	newModel ModelFactory
	config   PredictorConfig
}

// NewPredictor creates a new performance predictor
func NewPredictor(newModel ModelFactory, config PredictorConfig) *Predictor {
	return &Predictor{
		newModel: newModel,
		config:   config,
	}
}

// Predict fits a fresh model on the table and returns corrected predictions.
// When the model cannot be fit every video gets the flat fallback instead.
// Only context cancellation is returned as an error.
func (p *Predictor) Predict(ctx context.Context, table *analytics.FeatureTable) (analytics.PredictionResult, error) {
	result := analytics.PredictionResult{
		Predictions: make(map[string]int64, table.Len()),
	}
	if table.Len() == 0 {
		return result, nil
	}

	raw, err := p.fit(ctx, table)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		logging.Ctx(ctx).Warn().Err(err).Int("rows", table.Len()).Msg("Using fallback predictions")
		metrics.PredictionFallbacks.Inc()

		fallback := p.fallback(table)
		for _, row := range table.Rows {
			result.Predictions[row.VideoID] = fallback
		}
		result.Fallback = true
		return result, nil
	}

	for i, pred := range p.correct(table, raw) {
		result.Predictions[table.Rows[i].VideoID] = pred
	}
	return result, nil
}

// fit trains on the seeded split and predicts every row of the table
func (p *Predictor) fit(ctx context.Context, table *analytics.FeatureTable) (raw []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", analytics.ErrModelTraining, r)
		}
	}()

	train, _, err := TrainTestSplit(table.Len(), p.config.TestFraction, p.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analytics.ErrModelTraining, err)
	}

	x := table.Matrix()
	y := table.Targets()

	xTrain := make([][]float64, len(train))
	yTrain := make([]float64, len(train))
	for i, idx := range train {
		xTrain[i] = x[idx]
		yTrain[i] = y[idx]
	}

	var scaler Scaler
	if err := scaler.Fit(xTrain); err != nil {
		return nil, fmt.Errorf("%w: %v", analytics.ErrModelTraining, err)
	}

	model := p.newModel()
	if err := model.Fit(ctx, scaler.Transform(xTrain), yTrain); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", analytics.ErrModelTraining, err)
	}

	raw, err = model.Predict(scaler.Transform(x))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analytics.ErrModelTraining, err)
	}
	if len(raw) != table.Len() {
		return nil, fmt.Errorf("%w: got %d predictions for %d rows", analytics.ErrModelTraining, len(raw), table.Len())
	}

	return raw, nil
}

// correct applies the channel baseline, engagement multipliers and the
// actual-views floor to raw model output.
func (p *Predictor) correct(table *analytics.FeatureTable, raw []float64) []int64 {
	views := make([]float64, table.Len())
	engagement := make([]float64, table.Len())
	for i, row := range table.Rows {
		views[i] = row.Views
		engagement[i] = table.Value(i, features.EngagementRate)
	}

	avgViews := stat.Mean(views, nil)
	meanEngagement := stat.Mean(engagement, nil)

	out := make([]int64, table.Len())
	for i, pred := range raw {
		final := pred
		if final < avgViews {
			final = avgViews * p.config.AverageBoost
		}

		multiplier := 1.0
		if engagement[i] > meanEngagement {
			multiplier *= p.config.EngagementBoost
		}
		if table.Value(i, features.SentimentScore) > 0 {
			multiplier *= p.config.SentimentBoost
		}
		final *= multiplier

		final = math.Max(final, views[i]*p.config.FloorFactor)
		out[i] = int64(math.Round(final))
	}

	return out
}

// fallback is the flat prediction used when no model could be fit
func (p *Predictor) fallback(table *analytics.FeatureTable) int64 {
	views := make([]float64, table.Len())
	for i, row := range table.Rows {
		views[i] = row.Views
	}
	return int64(math.Round(floats.Max(views) * p.config.FallbackFactor))
}
