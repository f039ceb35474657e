package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(schedulingRuns.WithLabelValues("success"))

	ObserveRun(150*time.Millisecond, 50, 10, 123.5, 40.25)

	assert.Equal(t, before+1, testutil.ToFloat64(schedulingRuns.WithLabelValues("success")))
	assert.Equal(t, 123.5, testutil.ToFloat64(bestTime))
	assert.Equal(t, 40.25, testutil.ToFloat64(makespan))
	assert.Equal(t, 50.0, testutil.ToFloat64(workloadSize.WithLabelValues("tasks")))
	assert.Equal(t, 10.0, testutil.ToFloat64(workloadSize.WithLabelValues("resources")))
}

func TestObserveFailure(t *testing.T) {
	before := testutil.ToFloat64(schedulingRuns.WithLabelValues("failure"))
	ObserveFailure()
	assert.Equal(t, before+1, testutil.ToFloat64(schedulingRuns.WithLabelValues("failure")))
}
