package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the composed query timestamp format sent upstream and
// the primary layout accepted for record dates.
const TimestampLayout = "2006-01-02T15:04:05"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PredictionRecord is one predicted crime occurrence as returned by the
// upstream service. Immutable once parsed; replaced wholesale on the next
// successful query.
type PredictionRecord struct {
	Date           time.Time `json:"date"`
	SpatialCluster int       `json:"spatial_cluster"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	ClassID        int       `json:"class_id"`
	CrimeType      string    `json:"crime_type"`
	Probability    float64   `json:"probability"`
}

// ID derives a deterministic identifier from the record's key fields.
// Refetching the same prediction yields the same ID, so display anchors and
// log lines stay stable across queries.
func (r PredictionRecord) ID() string {
	input := fmt.Sprintf("%d|%.4f|%.4f|%s|%d",
		r.SpatialCluster, r.Latitude, r.Longitude,
		r.Date.Format(TimestampLayout), r.ClassID)
	hash := sha256.Sum256([]byte(input))
	return "pred-" + hex.EncodeToString(hash[:8])
}

// Label returns the display name for the record: the class table entry for
// ClassID, falling back to the upstream crime_type string.
func (r PredictionRecord) Label() string {
	if name, ok := LabelForClass(r.ClassID); ok {
		return name
	}
	if r.CrimeType != "" {
		return r.CrimeType
	}
	return "unknown"
}

// QueryParameters are the three user inputs that drive a fetch.
type QueryParameters struct {
	Date string `json:"date"` // calendar date, "2006-01-02"
	Time string `json:"time"` // clock time, "15:04" (a trailing ":SS" is dropped)
	TopN int    `json:"top_n"`
}

// Validate checks the parameters before any network activity. A missing date
// or time is the user-facing "missing input" case and must never reach the
// wire.
func (q QueryParameters) Validate() error {
	if strings.TrimSpace(q.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrMissingInput)
	}
	if strings.TrimSpace(q.Time) == "" {
		return fmt.Errorf("%w: time is required", ErrMissingInput)
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(q.Date)); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrMissingInput)
	}
	if _, err := time.Parse("15:04", normalizeClock(q.Time)); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrMissingInput)
	}
	if q.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be a positive integer", ErrMissingInput)
	}
	return nil
}

// Timestamp composes date and time into the upstream query timestamp,
// "YYYY-MM-DDTHH:MM:00". Seconds are always zero.
func (q QueryParameters) Timestamp() string {
	return fmt.Sprintf("%sT%s:00", strings.TrimSpace(q.Date), normalizeClock(q.Time))
}

// normalizeClock trims an optional seconds component from an HH:MM:SS input.
func normalizeClock(s string) string {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ":"); len(parts) > 2 {
		return parts[0] + ":" + parts[1]
	}
	return s
}

// MeanCenter returns the unweighted arithmetic mean of all record coordinates.
// The second return value is false for an empty list, in which case callers
// keep their previous center.
func MeanCenter(records []PredictionRecord) (Geo, bool) {
	if len(records) == 0 {
		return Geo{}, false
	}
	var sumLat, sumLon float64
	for _, r := range records {
		sumLat += r.Latitude
		sumLon += r.Longitude
	}
	n := float64(len(records))
	return Geo{Lat: sumLat / n, Lon: sumLon / n}, true
}

// ParseRecordDate accepts the composed timestamp layout, RFC 3339, and a
// plain date. Upstream is not strict about which one it emits.
func ParseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{TimestampLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ValidProbability reports whether p is a finite number. NaN and infinities
// are the only rejected inputs; out-of-range values classify into the extreme
// buckets instead.
func ValidProbability(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0)
}
