package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordForwardResult(t *testing.T) {
	before := testutil.ToFloat64(ForwardResultsTotal.WithLabelValues("ok"))
	RecordForwardResult("")
	RecordForwardResult("ok")
	assert.Equal(t, before+2, testutil.ToFloat64(ForwardResultsTotal.WithLabelValues("ok")))
}

func TestRecordTokenFetch(t *testing.T) {
	okBefore := testutil.ToFloat64(TokenFetchTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(TokenFetchTotal.WithLabelValues("error"))
	RecordTokenFetch(true)
	RecordTokenFetch(false)
	RecordTokenFetch(false)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(TokenFetchTotal.WithLabelValues("ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(TokenFetchTotal.WithLabelValues("error")))
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("m", "api_key", "ok"))
	RecordUpstream("m", "api_key", "ok", 0.2)
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("m", "api_key", "ok")))
}
