package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposed(t *testing.T) {
	ObserveOperation("insert", nil)
	ObserveOperation("insert", errors.New("duplicate"))
	SetRecords(3)

	body := scrape(t)
	assert.Contains(t, body, `rally_record_operations_total{operation="insert",result="ok"}`)
	assert.Contains(t, body, `rally_record_operations_total{operation="insert",result="error"}`)
	assert.Contains(t, body, "rally_records 3")
}
