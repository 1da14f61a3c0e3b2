package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollectorScrape(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.RecordRequest(http.MethodGet, http.StatusOK, 25*time.Millisecond)
	c.RecordRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	c.RecordRequest(http.MethodPost, http.StatusUnauthorized, time.Millisecond)
	c.RecordSessionIssued()
	c.RecordRefreshRejected()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `storefront_http_requests_total{method="GET",status="200"} 2`)
	require.Contains(t, body, `storefront_http_requests_total{method="POST",status="401"} 1`)
	require.Contains(t, body, "storefront_http_request_duration_seconds_count 3")
	require.Contains(t, body, "storefront_sessions_issued_total 1")
	require.Contains(t, body, "storefront_refresh_rejected_total 1")
}
