package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/sqlconn/v1/observability"
)

func TestObserveOperationCountsByStatus(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})
	var obs observability.Observer = m

	obs.ObserveOperation(observability.OperationContext{
		Component: "mysqlconn", Operation: "execute", Duration: 20 * time.Millisecond, Size: 3,
	})
	obs.ObserveOperation(observability.OperationContext{
		Component: "mysqlconn", Operation: "execute", Duration: time.Millisecond,
	})
	obs.ObserveOperation(observability.OperationContext{
		Component: "mysqlconn", Operation: "connect", Error: errors.New("refused"),
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mysqlconn", "execute", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mysqlconn", "connect", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("mysqlconn", "connect", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationSize), "zero sizes are not observed")
}

func TestServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "orders", Namespace: "sqlconn"})
	m.ObserveOperation(observability.OperationContext{Component: "mysqlconn", Operation: "commit"})

	expected := `
# HELP sqlconn_operations_total Total number of component operations by outcome
# TYPE sqlconn_operations_total counter
sqlconn_operations_total{component="mysqlconn",operation="commit",service="orders",status="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "sqlconn_operations_total"))
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "orders", EnableDefaultCollectors: true})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)

	m.ObserveOperation(observability.OperationContext{Component: "mysqlconn", Operation: "probe"})

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `operations_total{component="mysqlconn",operation="probe",service="orders",status="success"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
