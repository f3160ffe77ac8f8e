package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()

	return NewCollector("flowcanvas_test", prometheus.NewRegistry())
}

func TestCollector_RecordValidation(t *testing.T) {
	collector := newTestCollector(t)

	collector.RecordValidation(nil, time.Millisecond)
	collector.RecordValidation([]validation.Problem{
		{Code: validation.CodeNoTrigger, Severity: validation.SeverityError},
		{Code: validation.CodeDisconnectedNode, Severity: validation.SeverityError},
		{Code: validation.CodeDisconnectedNode, Severity: validation.SeverityError},
		{Code: validation.CodeNoOutput, Severity: validation.SeverityWarning},
	}, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(collector.validationsTotal.WithLabelValues("valid")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.validationsTotal.WithLabelValues("blocked")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(collector.problemsTotal.WithLabelValues("disconnected_node", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.problemsTotal.WithLabelValues("no_output", "warning")), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(collector.problemsTotal))
}

func TestCollector_RecordRejection(t *testing.T) {
	collector := newTestCollector(t)

	collector.RecordRejection("kind_mismatch")
	collector.RecordRejection("kind_mismatch")
	collector.RecordRejection("self_loop")

	assert.InDelta(t, 2, testutil.ToFloat64(collector.rejectionsTotal.WithLabelValues("kind_mismatch")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.rejectionsTotal.WithLabelValues("self_loop")), 0)
}

func TestCollector_RecordOperation(t *testing.T) {
	collector := newTestCollector(t)

	collector.RecordOperation("add_node", nil)
	collector.RecordOperation("add_node", errors.New("boom"))

	assert.InDelta(t, 1, testutil.ToFloat64(collector.operationsTotal.WithLabelValues("add_node", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.operationsTotal.WithLabelValues("add_node", "error")), 0)
}
