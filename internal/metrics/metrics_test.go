package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndServe(t *testing.T) {
	registry := prometheus.NewRegistry()
	Register(registry)

	before := testutil.ToFloat64(LexiconWrites.WithLabelValues(AddOp, Success))
	LexiconWrites.WithLabelValues(AddOp, Success).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LexiconWrites.WithLabelValues(AddOp, Success)))

	srv := httptest.NewServer(Handler(registry))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "arabic_reader_lexicon_writes_total")
}
