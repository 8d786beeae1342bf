// Command genmock generates synthetic prediction fixtures and can serve them
// as a stand-in for the external prediction API during local development.
//
// Usage:
//
//	go run ./cmd/genmock -count 50 -out data/mock/predictions.json
//	go run ./cmd/genmock -count 50 -serve :8000
//
// With -serve, GET /predict_crimes answers every query with the first top_n
// fixtures, re-stamped to the requested datetime_str.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jonboulle/clockwork"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
)

// Fixture coordinates scatter around this point, roughly central Campinas.
var fixtureCenter = domain.Geo{Lat: -22.9056, Lon: -47.0608}

// wireRecord matches the prediction API's JSON shape, date as a string.
type wireRecord struct {
	Date           string  `json:"date"`
	SpatialCluster int     `json:"spatial_cluster"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ClassID        int     `json:"class_id"`
	CrimeType      string  `json:"crime_type"`
	Probability    float64 `json:"probability"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	count := flag.Int("count", 50, "number of fixture records to generate")
	seed := flag.Uint64("seed", 1, "random seed for reproducible fixtures")
	out := flag.String("out", "", "output path for the fixture JSON")
	serve := flag.String("serve", "", "serve fixtures as a mock prediction API on this address")
	flag.Parse()

	if *out == "" && *serve == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out or -serve")
	}

	// Freeze the clock so regenerated fixtures are byte-identical.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.March, 14, 21, 30, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	records := generate(*count, *seed)
	log.Printf("generated %d fixture records", len(records))

	if *out != "" {
		if err := writeJSON(*out, records); err != nil {
			return fmt.Errorf("writing fixture: %w", err)
		}
		log.Printf("wrote fixture: %s", *out)
	}

	if *serve != "" {
		return serveFixtures(*serve, records)
	}
	return nil
}

// generate produces synthetic prediction records skewed toward low
// probabilities, the way the real model's top-N output looks.
func generate(count int, seed uint64) []wireRecord {
	faker := gofakeit.New(seed)
	base := domain.Now()

	records := make([]wireRecord, 0, count)
	for i := 0; i < count; i++ {
		// Square a uniform draw so most records land in the low buckets.
		u := faker.Float64Range(0, 1)
		probability := math.Round(u*u*10000) / 10000

		classID := faker.Number(0, 7)
		crimeType, _ := domain.LabelForClass(classID)

		records = append(records, wireRecord{
			Date:           base.Format(domain.TimestampLayout),
			SpatialCluster: faker.Number(0, 40),
			Latitude:       fixtureCenter.Lat + faker.Float64Range(-0.08, 0.08),
			Longitude:      fixtureCenter.Lon + faker.Float64Range(-0.08, 0.08),
			ClassID:        classID,
			CrimeType:      crimeType,
			Probability:    probability,
		})
	}
	return records
}

func serveFixtures(addr string, records []wireRecord) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /predict_crimes", func(w http.ResponseWriter, r *http.Request) {
		datetimeStr := r.URL.Query().Get("datetime_str")
		if datetimeStr == "" {
			http.Error(w, `{"detail":"datetime_str is required"}`, http.StatusUnprocessableEntity)
			return
		}
		topN, err := strconv.Atoi(r.URL.Query().Get("top_n"))
		if err != nil || topN <= 0 {
			http.Error(w, `{"detail":"top_n must be a positive integer"}`, http.StatusUnprocessableEntity)
			return
		}
		if topN > len(records) {
			topN = len(records)
		}

		out := make([]wireRecord, topN)
		copy(out, records[:topN])
		for i := range out {
			out[i].Date = datetimeStr
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Printf("encode response: %v", err)
		}
	})

	log.Printf("mock prediction API listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
