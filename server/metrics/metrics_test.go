package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xbe1/liquidated/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestMetricsServerExposesCollectors(t *testing.T) {
	srv := NewMetricsServer("127.0.0.1:0")
	metrics.LiquidationSeen("cDAI")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `liquidated_watcher_liquidations_total{market="cDAI"}`)
}

func TestRootField(t *testing.T) {
	op := &ast.OperationDefinition{
		Operation: ast.Query,
		SelectionSet: ast.SelectionSet{
			&ast.FragmentSpread{Name: "x"},
			&ast.Field{Name: "markets"},
		},
	}
	assert.Equal(t, "markets", rootField(op))
	assert.Equal(t, "unknown", rootField(&ast.OperationDefinition{}))
}
