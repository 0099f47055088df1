package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPRequestsTotal(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/api/test", "200")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("expected counter %v, got %v", before+1, got)
	}
}

func TestDBQueryErrors(t *testing.T) {
	c := DBQueryErrors.WithLabelValues("test_op", "test_table")
	c.Add(2)
	if got := testutil.ToFloat64(c); got != 2 {
		t.Errorf("expected 2 errors, got %v", got)
	}
}
