package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string, retries uint64) *Client {
	t.Helper()
	c, err := New(Options{
		Name:        "test",
		Endpoint:    url,
		Retries:     retries,
		MaxInterval: 5 * time.Millisecond,
		Headers:     map[string]string{"Authorization": "Bearer secret"},
	})
	require.NoError(t, err)
	return c
}

func TestDoForwardsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "query Markets($first: Int) { markets(first: $first) { id } }", req.Query)
		assert.Equal(t, "Markets", req.OperationName)
		assert.Equal(t, float64(2), req.Variables["first"])
		_, _ = w.Write([]byte(`{"data":{"markets":[{"id":"0x1"},{"id":"0x2"}]}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, 0).Do(context.Background(), &Request{
		Query:         "query Markets($first: Int) { markets(first: $first) { id } }",
		OperationName: "Markets",
		Variables:     map[string]interface{}{"first": 2},
	})
	require.NoError(t, err)
	assert.True(t, resp.HasData())
	assert.JSONEq(t, `{"markets":[{"id":"0x1"},{"id":"0x2"}]}`, string(resp.Data))
	assert.Empty(t, resp.Errors)
}

func TestDoReturnsGraphQLErrorsInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"indexing_error","path":["markets",0],"locations":[{"line":1,"column":3}]}]}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, 2).Do(context.Background(), &Request{Query: "{ markets { id } }"})
	require.NoError(t, err)
	assert.False(t, resp.HasData())
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "indexing_error", resp.Errors[0].Message)

	gqlErr := resp.Errors[0].GQLError()
	assert.Equal(t, "markets[0]", gqlErr.Path.String())
	assert.Equal(t, 3, gqlErr.Locations[0].Column)
	assert.EqualError(t, resp.Errors, "graphql: indexing_error")
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"_meta":{"deployment":"Qm"}}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, 3).Do(context.Background(), &Request{Query: "{ _meta { deployment } }"})
	require.NoError(t, err)
	assert.True(t, resp.HasData())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 2).Do(context.Background(), &Request{Query: "{ tokens { id } }"})
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad query"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Do(context.Background(), &Request{Query: "{"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRejectsInvalidJSON(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Do(context.Background(), &Request{Query: "{ tokens { id } }"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
