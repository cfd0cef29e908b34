package warehouse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFetchProductInfo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/warehouse/api/products/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bin":"A-7","onHand":3}`))
	}))
	defer server.Close()

	metrics := NewMetrics(prometheus.NewRegistry())
	client, err := NewClient(server.URL+"/warehouse", nil, WithMetrics(metrics))
	require.NoError(t, err)

	resp, err := client.FetchProductInfo(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), resp.ProductID)
	require.JSONEq(t, `{"bin":"A-7","onHand":3}`, string(resp.Body))
	require.Equal(t, "application/json", resp.ContentType)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues(outcomeSuccess)))
}

func TestFetchProductInfo_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	metrics := NewMetrics(nil)
	client, err := NewClient(server.URL, nil, WithMetrics(metrics))
	require.NoError(t, err)

	_, err = client.FetchProductInfo(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues(outcomeStatus)))
}

func TestFetchProductInfo_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(url, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.FetchProductInfo(context.Background(), 1)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFetchProductInfo_HonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	started := time.Now()
	_, err = client.FetchProductInfo(ctx, 1)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(started), 2*time.Second)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)
}
