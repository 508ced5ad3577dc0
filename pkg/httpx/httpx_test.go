package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopstream/pkg/httpx"
)

func TestGetDecodesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	res, err := httpx.Get(ts.URL).Bearer("tok-123").Send()
	require.NoError(t, err)
	require.True(t, res.OK())

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, res.JSON(&out))
	assert.True(t, out.OK)
}

func TestPostMarshalsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "shirt", in["title"])

		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	res, err := httpx.Post(ts.URL).Body(map[string]string{"title": "shirt"}).Send()
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestRetryRecoversFromTransportFailure(t *testing.T) {
	var calls int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			// Kill the first attempt mid-flight.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(`{"status":200}`))
	}))
	defer ts.Close()

	res, err := httpx.Get(ts.URL).Retry(3, 10*time.Millisecond).Send()
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendFailsAfterAllRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing listening

	_, err := httpx.Get(ts.URL).Retry(2, time.Millisecond).Send()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
}

func TestThrowOnErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer ts.Close()

	res, err := httpx.Get(ts.URL).Send()
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Error(t, res.Throw())
}
