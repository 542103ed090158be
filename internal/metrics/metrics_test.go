package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/homeforyou/internal/heatmap"
)

func TestRecorder_RunCompleted(t *testing.T) {
	r := NewRecorder()

	r.RunCompleted(250*time.Millisecond, heatmap.Stats{
		Observations: 5,
		Applied:      3,
		Rejected:     map[string]int{"out_of_bounds": 2},
		CellWrites:   27,
	}, []string{"park"})

	assert.InDelta(t, 1, testutil.ToFloat64(r.runs.WithLabelValues(StatusOK)), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(r.observations.WithLabelValues("accepted")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.observations.WithLabelValues("out_of_bounds")), 0)
	assert.InDelta(t, 27, testutil.ToFloat64(r.cellWrites), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.failed.WithLabelValues("park")), 0)
}

func TestRecorder_RunFailed(t *testing.T) {
	r := NewRecorder()
	r.RunFailed(StatusBadRequest)
	r.RunFailed(StatusBadRequest)
	r.RunFailed(StatusFailed)

	assert.InDelta(t, 2, testutil.ToFloat64(r.runs.WithLabelValues(StatusBadRequest)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runs.WithLabelValues(StatusFailed)), 0)
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RunFailed(StatusFailed)

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `homeforyou_runs_total{status="failed"} 1`)
}
