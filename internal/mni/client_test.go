package mni

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pge-tools/docketflow/internal/errs"
)

func testClient(url string) *Client {
	return NewClient(ClientConfig{
		URL:             url,
		User:            "user",
		Password:        "secret",
		QueryTimeout:    5 * time.Second,
		DownloadTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestQueryCaseSendsEnvelope(t *testing.T) {
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		_, _ = w.Write([]byte("<resposta/>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).QueryCase(context.Background(), "12345678920208120001")
	require.NoError(t, err)

	body := gotBody.Load().(string)
	assert.Contains(t, body, "<tip:idConsultante>user</tip:idConsultante>")
	assert.Contains(t, body, "<tip:numeroProcesso>12345678920208120001</tip:numeroProcesso>")
	assert.Contains(t, body, "<tip:movimentos>true</tip:movimentos>")
	assert.Contains(t, body, "<tip:incluirDocumentos>true</tip:incluirDocumentos>")
}

func TestFetchContentsListsDocumentIds(t *testing.T) {
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		_, _ = w.Write([]byte("<resposta/>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchContents(context.Background(), "123", []string{"11", "22"})
	require.NoError(t, err)

	body := gotBody.Load().(string)
	assert.Contains(t, body, "<tip:documento>11</tip:documento>")
	assert.Contains(t, body, "<tip:documento>22</tip:documento>")
	assert.NotContains(t, body, "<tip:movimentos>")
}

func TestSendRetriesOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.backoff = time.Millisecond
	text, err := c.QueryCase(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "<ok/>", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.backoff = time.Millisecond
	_, err := c.QueryCase(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrHTTPStatus))
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).QueryCase(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrHTTPStatus))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendReportsTimeoutWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		URL:             srv.URL,
		QueryTimeout:    20 * time.Millisecond,
		DownloadTimeout: 20 * time.Millisecond,
	}, zap.NewNop())

	_, err := c.QueryCase(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrTimeout))
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendReportsConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := testClient(srv.URL).QueryCase(context.Background(), "123")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConnection))
}
