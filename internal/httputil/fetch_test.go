// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(ts *httptest.Server, retries int, log *bytes.Buffer) *Client {
	return &Client{
		HTTP:      ts.Client(),
		Retries:   retries,
		Backoff:   time.Millisecond,
		UserAgent: "test/0.1",
		Log:       log,
	}
}

func TestGetImmediateSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, ok := testClient(ts, 2, &bytes.Buffer{}).Get(context.Background(), ts.URL, nil, nil)
	require.True(t, ok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetRetriesThenSuccess(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	resp, ok := testClient(ts, 2, &bytes.Buffer{}).Get(context.Background(), ts.URL, nil, nil)
	require.True(t, ok)
	defer resp.Body.Close()

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetExhaustionIsAbsent(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	var log bytes.Buffer
	resp, ok := testClient(ts, 1, &log).Get(context.Background(), ts.URL, nil, nil)
	assert.False(t, ok)
	assert.Nil(t, resp)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, log.String(), "giving up after 2 attempts")
}

func TestGetTransportErrorIsAbsent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close()

	resp, ok := testClient(ts, 0, &bytes.Buffer{}).Get(context.Background(), ts.URL, nil, nil)
	assert.False(t, ok)
	assert.Nil(t, resp)
}

func TestGetFlagsForbidden(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	var log bytes.Buffer
	_, ok := testClient(ts, 0, &log).Get(context.Background(), ts.URL, nil, nil)
	assert.False(t, ok)
	assert.Contains(t, log.String(), "forbidden (403)")
}

func TestGetSendsHeadersAndParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		assert.Equal(t, "slam", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	params := url.Values{"q": {"slam"}, "sort": {"stars"}}

	resp, ok := testClient(ts, 0, &bytes.Buffer{}).Get(context.Background(), ts.URL, header, params)
	require.True(t, ok)
	resp.Body.Close()
}

func TestGetCancelledContext(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(ts, 5, &bytes.Buffer{})
	c.Backoff = time.Hour // the cancelled context must win the backoff wait
	_, ok := c.Get(ctx, ts.URL, nil, nil)
	assert.False(t, ok)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}
