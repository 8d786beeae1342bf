// Package orchestrator owns the dashboard's fetch state machine. All mutable
// display state (current query, result list, error, map center) lives behind
// one Orchestrator; collaborators read it only through Snapshot.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/observability"
)

// State is the fetch machine position. Submit drives
// Idle → Validating → Fetching → {Success, Failed}; both terminal states
// accept the next trigger.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateFetching   State = "fetching"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// ErrFetchInFlight is returned when Submit is called while a fetch is
// running. The trigger is a no-op: no second request is issued and the
// machine state is untouched.
var ErrFetchInFlight = errors.New("a prediction fetch is already in flight")

// Fetcher issues the single outbound prediction query.
type Fetcher interface {
	Predict(ctx context.Context, timestamp string, topN int) ([]domain.PredictionRecord, error)
}

// Snapshot is a point-in-time copy of the display state.
type Snapshot struct {
	State     State                     `json:"state"`
	Query     domain.QueryParameters    `json:"query"`
	Records   []domain.PredictionRecord `json:"records"`
	Center    domain.Geo                `json:"center"`
	Zoom      int                       `json:"zoom"`
	Error     string                    `json:"error,omitempty"`
	FetchedAt time.Time                 `json:"fetched_at,omitzero"`
}

// Orchestrator validates query parameters, runs at most one outbound fetch at
// a time, and holds the most recent successful result list.
type Orchestrator struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics

	// inFlight is the single-flight guard for outbound fetches. Separate
	// from mu so a snapshot read never waits on a fetch.
	inFlight  atomic.Bool
	succeeded atomic.Bool

	mu        sync.Mutex
	state     State
	query     domain.QueryParameters
	records   []domain.PredictionRecord
	center    domain.Geo
	zoom      int
	lastError string
	fetchedAt time.Time
}

// New creates an Orchestrator in the Idle state with the given initial map
// center and zoom.
func New(fetcher Fetcher, initialCenter domain.Geo, zoom int, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	o := &Orchestrator{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
		state:   StateIdle,
		center:  initialCenter,
		zoom:    zoom,
	}
	metrics.OrchestratorState.Set(stateValue(StateIdle))
	return o
}

// Submit runs one validate-fetch cycle with the given parameters.
//
// Error classes map onto the failure taxonomy: domain.ErrMissingInput before
// any network activity, domain.ErrTransport / *domain.StatusError /
// domain.ErrParse from the wire, and ErrFetchInFlight when a fetch is
// already running. On failure the previously displayed list is left
// untouched; on success it is replaced wholesale.
func (o *Orchestrator) Submit(ctx context.Context, params domain.QueryParameters) (Snapshot, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.metrics.FetchesTotal.WithLabelValues(observability.OutcomeRejectedInFlight).Inc()
		return o.Snapshot(), ErrFetchInFlight
	}
	defer o.inFlight.Store(false)

	attemptID := uuid.NewString()
	start := time.Now()

	o.setState(StateValidating)
	if err := params.Validate(); err != nil {
		o.failWith(params, err.Error())
		o.metrics.FetchesTotal.WithLabelValues(observability.OutcomeInputError).Inc()
		o.logger.Warn("query rejected before fetch", "attempt_id", attemptID, "error", err)
		return o.Snapshot(), err
	}

	o.setState(StateFetching)
	timestamp := params.Timestamp()
	o.logger.Info("fetching predictions",
		"attempt_id", attemptID,
		"datetime_str", timestamp,
		"top_n", params.TopN,
	)

	records, err := o.fetcher.Predict(ctx, timestamp, params.TopN)
	if err != nil {
		o.failWith(params, userMessage(err))
		o.metrics.FetchesTotal.WithLabelValues(outcomeFor(err)).Inc()
		o.logger.Warn("prediction fetch failed", "attempt_id", attemptID, "error", err)
		return o.Snapshot(), err
	}

	o.completeFetch(params, records)
	o.metrics.FetchesTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	o.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	o.metrics.RecordsPerFetch.Observe(float64(len(records)))
	o.logger.Info("prediction fetch complete",
		"attempt_id", attemptID,
		"records", len(records),
	)
	return o.Snapshot(), nil
}

// Snapshot returns a copy of the current display state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	records := make([]domain.PredictionRecord, len(o.records))
	copy(records, o.records)

	return Snapshot{
		State:     o.state,
		Query:     o.query,
		Records:   records,
		Center:    o.center,
		Zoom:      o.zoom,
		Error:     o.lastError,
		FetchedAt: o.fetchedAt,
	}
}

// CheckReadiness returns nil once at least one fetch has succeeded.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.succeeded.Load() {
		return errors.New("no prediction fetch has succeeded yet")
	}
	return nil
}

// completeFetch replaces the result list with the new payload. The center is
// recomputed only for non-empty payloads; an empty list keeps the previous
// center so the map does not jump to (0,0).
func (o *Orchestrator) completeFetch(params domain.QueryParameters, records []domain.PredictionRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateSuccess
	o.query = params
	o.records = records
	o.lastError = ""
	o.fetchedAt = domain.Now()
	if center, ok := domain.MeanCenter(records); ok {
		o.center = center
	}
	o.metrics.OrchestratorState.Set(stateValue(StateSuccess))
	o.succeeded.Store(true)
}

// failWith records a failure message. The previous result list and center are
// deliberately kept so the dashboard does not flash to empty.
func (o *Orchestrator) failWith(params domain.QueryParameters, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateFailed
	o.query = params
	o.lastError = message
	o.metrics.OrchestratorState.Set(stateValue(StateFailed))
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
	o.metrics.OrchestratorState.Set(stateValue(s))
}

// userMessage condenses a fetch error into the single-line message shown on
// the dashboard. Wire detail stays in the logs.
func userMessage(err error) string {
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrTransport):
		return "could not reach the prediction service"
	case errors.As(err, &statusErr):
		return "the prediction service returned an error"
	case errors.Is(err, domain.ErrParse):
		return "the prediction service returned an unreadable response"
	default:
		return "prediction fetch failed"
	}
}

func outcomeFor(err error) string {
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrTransport):
		return observability.OutcomeTransportError
	case errors.As(err, &statusErr):
		return observability.OutcomeStatusError
	case errors.Is(err, domain.ErrParse):
		return observability.OutcomeParseError
	default:
		return observability.OutcomeTransportError
	}
}

func stateValue(s State) float64 {
	switch s {
	case StateValidating:
		return 1
	case StateFetching:
		return 2
	case StateSuccess:
		return 3
	case StateFailed:
		return 4
	default:
		return 0
	}
}
