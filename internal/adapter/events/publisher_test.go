package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanalytics/internal/domain/analytics"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestPublishReport(t *testing.T) {
	conn := &recordingConn{}
	pub := NewPublisher(conn, "analytics")

	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := analytics.Report{
		ID:                 "r1",
		Channel:            "demo",
		GeneratedAt:        generated,
		BestTime:           "2-14:00",
		VideoSentiments:    make([]analytics.VideoSentiment, 3),
		PredictionFallback: true,
	}

	require.NoError(t, pub.PublishReport(context.Background(), report))
	assert.Equal(t, "analytics.completed", conn.subject)

	var got analytics.ReportSummary
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "demo", got.Channel)
	assert.Equal(t, "2-14:00", got.BestTime)
	assert.Equal(t, 3, got.Videos)
	assert.True(t, got.PredictionFallback)
	assert.True(t, generated.Equal(got.GeneratedAt))
}

func TestPublishReportErrors(t *testing.T) {
	conn := &recordingConn{err: errors.New("nats: connection closed")}
	pub := NewPublisher(conn, "")

	err := pub.PublishReport(context.Background(), analytics.Report{ID: "r1"})
	require.Error(t, err)
	assert.Equal(t, "analytics.completed", conn.subject)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pub.PublishReport(ctx, analytics.Report{}), context.Canceled)
}

func TestCompletedSubject(t *testing.T) {
	assert.Equal(t, "reports.completed", CompletedSubject("reports"))
}
