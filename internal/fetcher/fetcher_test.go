package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/godraws/internal/domain"
	"github.com/jonesrussell/godraws/internal/fetcher"
	"github.com/jonesrussell/godraws/internal/logger"
)

func TestFetch_CapturesStatusBodyAndContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`[{"draw_date":"2024-01-01"}]`))
	}))
	defer srv.Close()

	f := fetcher.New(fetcher.Config{Timeout: 5 * time.Second}, logger.NewNoOp())
	res := f.Fetch(context.Background(), domain.Target{URL: srv.URL})

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "application/json", res.ContentType)
	assert.Equal(t, len(res.Body), res.Bytes)
	assert.Contains(t, string(res.Body), "draw_date")
	assert.False(t, res.FetchedAt.IsZero())
}

func TestFetch_FollowsRedirects(t *testing.T) {
	t.Parallel()

	var final *httptest.Server
	final = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("landed"))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/results", http.StatusFound)
	}))
	defer redirecting.Close()

	f := fetcher.New(fetcher.Config{Timeout: 5 * time.Second}, logger.NewNoOp())
	res := f.Fetch(context.Background(), domain.Target{URL: redirecting.URL})

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, final.URL+"/results", res.FinalURL)
}

func TestFetch_TransportFailureDegradesToZeroStatus(t *testing.T) {
	t.Parallel()

	f := fetcher.New(fetcher.Config{Timeout: time.Second}, logger.NewNoOp())
	res := f.Fetch(context.Background(), domain.Target{URL: "http://127.0.0.1:1/unreachable"})

	assert.Equal(t, 0, res.Status)
	assert.Empty(t, res.Body)
	assert.Equal(t, "http://127.0.0.1:1/unreachable", res.URL)
}

func TestFetch_TimeoutDegradesToZeroStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	f := fetcher.New(fetcher.Config{Timeout: 50 * time.Millisecond}, logger.NewNoOp())
	res := f.Fetch(context.Background(), domain.Target{URL: srv.URL})

	assert.Equal(t, 0, res.Status)
}

func TestFetch_BodyCappedAtMaxBytes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	f := fetcher.New(fetcher.Config{Timeout: 5 * time.Second, MaxBodyBytes: 1024}, logger.NewNoOp())
	res := f.Fetch(context.Background(), domain.Target{URL: srv.URL})

	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, 1024, res.Bytes)
}
