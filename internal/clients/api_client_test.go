package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestAPIClientSendsJSONHeadersAndBaseURL(t *testing.T) {
	var gotPath, gotContentType, gotAccept, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c1","name":"Beverages"}`))
	}))
	defer srv.Close()

	api, err := NewAPIClient(srv.URL+"/estoque/", newTestLogger())
	require.NoError(t, err)

	resp, err := api.Post(context.Background(), "/categories", map[string]string{"name": "Beverages"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"c1","name":"Beverages"}`, string(resp.Body))
	assert.Equal(t, "/estoque/categories", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.JSONEq(t, `{"name":"Beverages"}`, gotBody)
}

func TestAPIClientGetAddsLeadingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	api, err := NewAPIClient(srv.URL, newTestLogger())
	require.NoError(t, err)

	_, err = api.Get(context.Background(), "categories")
	require.NoError(t, err)
	assert.Equal(t, "/categories", gotPath)
}

func TestAPIClientNon2xxCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"category must be a number"}`))
	}))
	defer srv.Close()

	api, err := NewAPIClient(srv.URL, newTestLogger())
	require.NoError(t, err)

	_, err = api.Post(context.Background(), "/products", map[string]interface{}{"name": "Cola"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.MethodPost, httpErr.Method)
	assert.Equal(t, "/products", httpErr.Path)

	status, ok := StatusCodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.JSONEq(t, `{"error":"category must be a number"}`, string(ResponseBodyOf(err)))
}

func TestAPIClientNetworkErrorHasNoStatus(t *testing.T) {
	transport := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	api, err := NewAPIClient("http://inventory.invalid", newTestLogger(), WithTransport(transport))
	require.NoError(t, err)

	_, err = api.Get(context.Background(), "/categories")
	require.Error(t, err)

	_, ok := StatusCodeOf(err)
	assert.False(t, ok)
	assert.Nil(t, ResponseBodyOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAPIClientHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	api, err := NewAPIClient(srv.URL, newTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = api.Get(ctx, "/categories")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAPIClientWithTimeout(t *testing.T) {
	api, err := NewAPIClient("http://example.com", newTestLogger(), WithTimeout(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, api.(*apiHTTPClient).client.Timeout)
}

func TestNewAPIClientRejectsRelativeURL(t *testing.T) {
	_, err := NewAPIClient("/api", newTestLogger())
	assert.Error(t, err)
}

func TestPostRejectsUnencodableBody(t *testing.T) {
	called := false
	transport := roundTripFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(""))}, nil
	})
	api, err := NewAPIClient("http://example.com", newTestLogger(), WithTransport(transport))
	require.NoError(t, err)

	_, err = api.Post(context.Background(), "/categories", map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
	assert.False(t, called)
}
