package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/books", "200"))

	RecordHTTPRequest(http.MethodGet, "/api/books", http.StatusOK, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/books", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordReviewOperation(t *testing.T) {
	before := testutil.ToFloat64(ReviewOperationsTotal.WithLabelValues("add", OutcomeRejected))

	RecordReviewOperation("add", OutcomeRejected)
	RecordReviewOperation("add", OutcomeRejected)

	assert.Equal(t, before+2, testutil.ToFloat64(ReviewOperationsTotal.WithLabelValues("add", OutcomeRejected)))
}

func TestRecordAuthAndRateLimit(t *testing.T) {
	beforeAuth := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", OutcomeSuccess))
	beforeLimited := testutil.ToFloat64(RateLimitedTotal)

	RecordAuthAttempt("login", OutcomeSuccess)
	RecordRateLimited()

	assert.Equal(t, beforeAuth+1, testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, beforeLimited+1, testutil.ToFloat64(RateLimitedTotal))
}
