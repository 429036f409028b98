package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ApplicationTransition("Applied", "Shortlisted")
	m.ApplicationTransition("Applied", "Shortlisted")
	m.GovernorOutcome("dropped")
	m.HTTPRequest("GET /api/jobs", 429)
	m.MembershipSync("save", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("Applied", "Shortlisted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.governor.WithLabelValues("dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /api/jobs", "429")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.membershipSyncs.WithLabelValues("save", "error")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "alumnijobs_application_transitions_total"))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ApplicationTransition("a", "b")
		m.GovernorOutcome("ok")
		m.HTTPRequest("x", 200)
		m.MembershipSync("save", true)
	})
}
