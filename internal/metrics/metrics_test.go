package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/analytics", "200"))

	RecordAPIRequest("GET", "/api/v1/analytics", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/analytics", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordPipelineRun(t *testing.T) {
	before := testutil.ToFloat64(PipelineRuns.WithLabelValues("ok"))

	RecordPipelineRun("ok", 3, time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(PipelineRuns.WithLabelValues("ok")))
}
