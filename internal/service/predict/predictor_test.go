package predict

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/service/features"
)

// stubModel returns preset predictions and records what it was fit on
type stubModel struct {
	predictions []float64
	fitErr      error
	panics      bool
	fitRows     int
}

func (m *stubModel) Fit(_ context.Context, x [][]float64, _ []float64) error {
	if m.panics {
		panic("degenerate matrix")
	}
	m.fitRows = len(x)
	return m.fitErr
}

func (m *stubModel) Predict(x [][]float64) ([]float64, error) {
	return m.predictions[:len(x)], nil
}

func tableOf(rows ...analytics.FeatureRow) *analytics.FeatureTable {
	return &analytics.FeatureTable{Columns: features.Columns, Rows: rows}
}

func row(id string, views, engagement, sentiment float64) analytics.FeatureRow {
	t := tableOf()
	values := make([]float64, len(features.Columns))
	values[t.Column(features.EngagementRate)] = engagement
	values[t.Column(features.SentimentScore)] = sentiment
	values[t.Column(features.Likes)] = views / 10
	return analytics.FeatureRow{
		VideoID: id,
		Title:   id,
		Views:   views,
		Values:  values,
		Target:  views,
	}
}

func TestPredictPostCorrection(t *testing.T) {
	model := &stubModel{predictions: []float64{50, 1000, 350, 10, 600}}
	p := NewPredictor(func() Regressor { return model }, DefaultPredictorConfig())

	table := tableOf(
		row("a", 100, 0.2, 0.5),
		row("b", 200, 0, 0),
		row("c", 300, 0, 0),
		row("d", 400, 0, 0),
		row("e", 500, 0, -0.5),
	)

	result, err := p.Predict(context.Background(), table)
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Equal(t, 4, model.fitRows)
	assert.Equal(t, map[string]int64{
		"a": 702,
		"b": 1000,
		"c": 350,
		"d": 440,
		"e": 600,
	}, result.Predictions)
}

func TestPredictFloorInvariant(t *testing.T) {
	cfg := DefaultForestConfig()
	cfg.Trees = 20
	p := NewPredictor(ForestFactory(cfg), DefaultPredictorConfig())

	table := tableOf(
		row("a", 1200, 0.15, 0.2),
		row("b", 90000, 0.01, -0.1),
		row("c", 450, 0.3, 1),
		row("d", 5000, 0.05, 0),
		row("e", 333, 0, 0),
		row("f", 77777, 0.2, 0.4),
	)

	result, err := p.Predict(context.Background(), table)
	require.NoError(t, err)
	require.False(t, result.Fallback)
	require.Len(t, result.Predictions, 6)

	for _, r := range table.Rows {
		assert.GreaterOrEqual(t, result.Predictions[r.VideoID], int64(math.Round(r.Views*1.1)), r.VideoID)
	}
}

func TestPredictFallback(t *testing.T) {
	t.Run("single row cannot be split", func(t *testing.T) {
		p := NewPredictor(ForestFactory(DefaultForestConfig()), DefaultPredictorConfig())

		result, err := p.Predict(context.Background(), tableOf(row("a", 1000, 0.1, 0)))
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, map[string]int64{"a": 1200}, result.Predictions)
	})

	t.Run("fit error", func(t *testing.T) {
		model := &stubModel{fitErr: errors.New("singular")}
		p := NewPredictor(func() Regressor { return model }, DefaultPredictorConfig())

		result, err := p.Predict(context.Background(), tableOf(
			row("a", 100, 0, 0),
			row("b", 250, 0, 0),
			row("c", 50, 0, 0),
		))
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, map[string]int64{"a": 300, "b": 300, "c": 300}, result.Predictions)
	})

	t.Run("fit panic", func(t *testing.T) {
		model := &stubModel{panics: true}
		p := NewPredictor(func() Regressor { return model }, DefaultPredictorConfig())

		result, err := p.Predict(context.Background(), tableOf(row("a", 10, 0, 0), row("b", 20, 0, 0)))
		require.NoError(t, err)
		assert.True(t, result.Fallback)
		assert.Equal(t, int64(24), result.Predictions["a"])
	})
}

func TestPredictEmptyTable(t *testing.T) {
	p := NewPredictor(ForestFactory(DefaultForestConfig()), DefaultPredictorConfig())

	result, err := p.Predict(context.Background(), tableOf())
	require.NoError(t, err)
	assert.Empty(t, result.Predictions)
}

func TestPredictCancelled(t *testing.T) {
	p := NewPredictor(ForestFactory(DefaultForestConfig()), DefaultPredictorConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Predict(ctx, tableOf(row("a", 1, 0, 0), row("b", 2, 0, 0), row("c", 3, 0, 0)))
	assert.ErrorIs(t, err, context.Canceled)
}
