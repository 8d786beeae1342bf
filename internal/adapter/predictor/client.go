// Package predictor talks to the external crime-prediction service over its
// single GET endpoint. The service's model is a black box; this package only
// shapes the wire payload into domain records and classifies failures.
package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/observability"
)

// Client fetches predictions from the external service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a prediction API client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Predict issues one GET /predict_crimes request for the composed timestamp
// and result limit, and returns the parsed record list. The returned error
// is always one of the taxonomy: domain.ErrTransport, *domain.StatusError,
// or domain.ErrParse.
func (c *Client) Predict(ctx context.Context, timestamp string, topN int) ([]domain.PredictionRecord, error) {
	params := url.Values{
		"datetime_str": {timestamp},
		"top_n":        {strconv.Itoa(topN)},
	}
	fullURL := c.baseURL + "/predict_crimes?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrTransport, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.PredictorAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return nil, &domain.StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var wire []wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrParse, err)
	}

	records, err := toDomain(wire)
	if err != nil {
		c.metrics.PredictorRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	c.metrics.PredictorRequests.WithLabelValues("success").Inc()
	c.logger.Debug("prediction fetch complete",
		"timestamp", timestamp,
		"top_n", topN,
		"records", len(records),
	)
	return records, nil
}

func toDomain(wire []wireRecord) ([]domain.PredictionRecord, error) {
	records := make([]domain.PredictionRecord, 0, len(wire))
	for i, w := range wire {
		date, err := domain.ParseRecordDate(w.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrParse, i, err)
		}
		if !domain.ValidProbability(w.Probability) {
			return nil, fmt.Errorf("%w: record %d: probability is not finite", domain.ErrParse, i)
		}
		records = append(records, domain.PredictionRecord{
			Date:           date,
			SpatialCluster: w.SpatialCluster,
			Latitude:       w.Latitude,
			Longitude:      w.Longitude,
			ClassID:        w.ClassID,
			CrimeType:      w.CrimeType,
			Probability:    w.Probability,
		})
	}
	return records, nil
}

// Prediction API wire types.

type wireRecord struct {
	Date           string  `json:"date"`
	SpatialCluster int     `json:"spatial_cluster"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ClassID        int     `json:"class_id"`
	CrimeType      string  `json:"crime_type"`
	Probability    float64 `json:"probability"`
}
