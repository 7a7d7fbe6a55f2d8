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

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(eventsApplied.WithLabelValues("DrawCard"))
	EventApplied("DrawCard")
	EventApplied("DrawCard")
	assert.Equal(t, before+2, testutil.ToFloat64(eventsApplied.WithLabelValues("DrawCard")))

	rejected := testutil.ToFloat64(choicesRejected)
	ChoiceRejected()
	assert.Equal(t, rejected+1, testutil.ToFloat64(choicesRejected))
}

func TestHandlerExposesEngineMetrics(t *testing.T) {
	StateBasedActions(1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "mage_state_based_actions_total"))
}
