package predictor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
	testTimestamp     = "2025-03-14T21:30:00"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Predict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict_crimes", r.URL.Path)
		assert.Equal(t, testTimestamp, r.URL.Query().Get("datetime_str"))
		assert.Equal(t, "10", r.URL.Query().Get("top_n"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, err := w.Write([]byte(`[
			{"date":"2025-03-14T21:30:00","spatial_cluster":12,"latitude":-22.9056,"longitude":-47.0608,"class_id":2,"crime_type":"robbery","probability":0.61},
			{"date":"2025-03-14T21:30:00","spatial_cluster":3,"latitude":-22.8900,"longitude":-47.0500,"class_id":0,"crime_type":"theft","probability":0.12}
		]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.Predict(context.Background(), testTimestamp, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 12, records[0].SpatialCluster)
	assert.Equal(t, -22.9056, records[0].Latitude)
	assert.Equal(t, -47.0608, records[0].Longitude)
	assert.Equal(t, 2, records[0].ClassID)
	assert.Equal(t, "robbery", records[0].CrimeType)
	assert.Equal(t, 0.61, records[0].Probability)
	assert.Equal(t, time.Date(2025, 3, 14, 21, 30, 0, 0, time.UTC), records[0].Date)
}

func TestClient_Predict_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	records, err := c.Predict(context.Background(), testTimestamp, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClient_Predict_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model not loaded"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Predict(context.Background(), testTimestamp, 10)
	require.Error(t, err)

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Predict_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Predict(context.Background(), testTimestamp, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestClient_Predict_UnparseableRecordDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`[{"date":"whenever","spatial_cluster":1,"latitude":1,"longitude":2,"class_id":0,"crime_type":"theft","probability":0.2}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Predict(context.Background(), testTimestamp, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestClient_Predict_ConnectionRefused(t *testing.T) {
	// Closed server yields a transport-level failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := testClient(srv.URL)
	_, err := c.Predict(context.Background(), testTimestamp, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_Predict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{
		baseURL:    srv.URL,
		httpClient: &http.Client{Timeout: 50 * time.Millisecond},
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	_, err := c.Predict(context.Background(), testTimestamp, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}
