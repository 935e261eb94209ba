package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/domain/channel"
)

type fakeSource struct {
	channels map[string]*channel.Channel
	err      error
}

func (f *fakeSource) GetChannel(_ context.Context, title string) (*channel.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, ok := f.channels[title]
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", title, analytics.ErrNotFound)
	}
	return ch, nil
}

type fakeRunner struct {
	err  error
	runs int
}

func (f *fakeRunner) Run(_ context.Context, ch channel.Channel) (*analytics.Report, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return &analytics.Report{ID: "r-" + ch.Title, Channel: ch.Title, BestTime: "Unknown:00"}, nil
}

type fakeStore struct {
	saved   []analytics.Report
	saveErr error
	limit   int
}

func (f *fakeStore) SaveReport(_ context.Context, r analytics.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeStore) GetReport(_ context.Context, id string) (*analytics.Report, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, analytics.ErrNotFound
}

func (f *fakeStore) ListReports(_ context.Context, channel string, limit int) ([]analytics.ReportSummary, error) {
	f.limit = limit
	var out []analytics.ReportSummary
	for _, r := range f.saved {
		if r.Channel == channel {
			out = append(out, r.Summary())
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishReport(_ context.Context, r analytics.Report) error {
	f.published = append(f.published, r.ID)
	return f.err
}

func newTestService() (*Service, *fakeRunner, *fakeStore, *fakePublisher) {
	source := &fakeSource{channels: map[string]*channel.Channel{
		"demo":  {Title: "demo", Videos: []channel.Video{{ID: "a", Stats: channel.Stats{Views: 1}}}},
		"empty": {Title: "empty"},
	}}
	runner := &fakeRunner{}
	store := &fakeStore{}
	pub := &fakePublisher{}
	return NewService(source, nil, runner, store, pub, ServiceConfig{DefaultListLimit: 10, MaxListLimit: 50}), runner, store, pub
}

func TestAnalyzeChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores and publishes", func(t *testing.T) {
		svc, runner, store, pub := newTestService()

		r, err := svc.AnalyzeChannel(ctx, "  demo ")
		require.NoError(t, err)
		assert.Equal(t, "r-demo", r.ID)
		assert.Equal(t, 1, runner.runs)
		require.Len(t, store.saved, 1)
		assert.Equal(t, []string{"r-demo"}, pub.published)

		got, err := svc.GetReport(ctx, "r-demo")
		require.NoError(t, err)
		assert.Equal(t, "demo", got.Channel)
	})

	t.Run("missing title", func(t *testing.T) {
		svc, runner, _, _ := newTestService()
		_, err := svc.AnalyzeChannel(ctx, " ")
		assert.ErrorIs(t, err, analytics.ErrMissingInput)
		assert.Zero(t, runner.runs)
	})

	t.Run("unknown channel", func(t *testing.T) {
		svc, runner, _, _ := newTestService()
		_, err := svc.AnalyzeChannel(ctx, "nope")
		assert.ErrorIs(t, err, analytics.ErrNotFound)
		assert.Zero(t, runner.runs)
	})

	t.Run("channel without videos", func(t *testing.T) {
		svc, runner, _, _ := newTestService()
		_, err := svc.AnalyzeChannel(ctx, "empty")
		assert.ErrorIs(t, err, analytics.ErrNotFound)
		assert.Zero(t, runner.runs)
	})

	t.Run("source failure", func(t *testing.T) {
		svc := NewService(&fakeSource{err: errors.New("connection refused")}, nil, &fakeRunner{}, nil, nil, ServiceConfig{})
		_, err := svc.AnalyzeChannel(ctx, "demo")
		require.Error(t, err)
		assert.NotErrorIs(t, err, analytics.ErrNotFound)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("pipeline error is returned", func(t *testing.T) {
		svc, runner, store, _ := newTestService()
		runner.err = fmt.Errorf("x: %w", analytics.ErrInsufficientData)

		_, err := svc.AnalyzeChannel(ctx, "demo")
		assert.ErrorIs(t, err, analytics.ErrInsufficientData)
		assert.Empty(t, store.saved)
	})

	t.Run("store and publish failures are not fatal", func(t *testing.T) {
		svc, _, store, pub := newTestService()
		store.saveErr = errors.New("disk full")
		pub.err = errors.New("no responders")

		r, err := svc.AnalyzeChannel(ctx, "demo")
		require.NoError(t, err)
		assert.NotNil(t, r)
	})
}

type fakeSaver struct {
	saved []string
	err   error
}

func (f *fakeSaver) SaveChannel(_ context.Context, ch channel.Channel) error {
	f.saved = append(f.saved, ch.Title)
	return f.err
}

func TestAnalyzeSnapshot(t *testing.T) {
	saver := &fakeSaver{}
	svc := NewService(&fakeSource{}, saver, &fakeRunner{}, nil, nil, ServiceConfig{})

	_, err := svc.AnalyzeSnapshot(context.Background(), channel.Channel{})
	assert.ErrorIs(t, err, analytics.ErrMissingInput)
	assert.Empty(t, saver.saved)

	r, err := svc.AnalyzeSnapshot(context.Background(), channel.Channel{Title: "posted"})
	require.NoError(t, err)
	assert.Equal(t, "posted", r.Channel)
	assert.Equal(t, []string{"posted"}, saver.saved)

	saver.err = errors.New("read-only transaction")
	_, err = svc.AnalyzeSnapshot(context.Background(), channel.Channel{Title: "posted"})
	require.NoError(t, err)

	_, err = svc.GetReport(context.Background(), r.ID)
	assert.ErrorIs(t, err, analytics.ErrNotFound)
}

func TestListReports(t *testing.T) {
	ctx := context.Background()
	svc, _, store, _ := newTestService()

	_, err := svc.AnalyzeChannel(ctx, "demo")
	require.NoError(t, err)

	list, err := svc.ListReports(ctx, "demo", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 10, store.limit)

	_, err = svc.ListReports(ctx, "demo", 500)
	require.NoError(t, err)
	assert.Equal(t, 50, store.limit)

	_, err = svc.ListReports(ctx, "", 5)
	assert.ErrorIs(t, err, analytics.ErrMissingInput)
}
