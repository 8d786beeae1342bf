// Package domain models crime-risk predictions returned by the external
// forecasting service and the display rules applied to them.
//
// # Data Source
//
// Predictions come from an upstream ML service reached over HTTP GET
// (/predict_crimes). The service is a black box: this package never sees how
// probabilities are computed, only the returned records. Each record carries
// a timestamp, a spatial cluster number, WGS-84 coordinates, a crime class,
// and a probability in [0,1]. A response is valid only as long as it is the
// most recent one; records are never merged across queries.
//
// # Risk Classification
//
// Marker color and risk level are derived from probability using one shared
// set of breakpoints, inclusive on the low edge of each bucket:
//
//	probability ≥ 0.50          → red    / High
//	0.20 ≤ probability < 0.50   → orange / Medium
//	0.05 ≤ probability < 0.20   → blue   / Low
//	probability < 0.05          → green  / VeryLow
//
// Any finite input is accepted. Values outside [0,1] fall into the extreme
// buckets by the same comparisons, so color and level can never disagree.
//
// # Crime Classes
//
// The upstream model emits small integer class IDs. [LabelForClass] maps them
// to display names; records whose class ID is unknown fall back to their own
// crime_type string. The table is fixed at build time.
//
// # Timestamps
//
// Queries carry a composed timestamp of the form "2006-01-02T15:04:00"
// (seconds always zero) built from separate date and time inputs. Record
// timestamps from upstream are accepted in the same layout or RFC 3339.
//
// # Record IDs
//
// Records have no upstream identifier, so [PredictionRecord.ID] derives a
// deterministic SHA-256 based ID from cluster, coordinates, timestamp, and
// class. The same record always produces the same ID across refetches, which
// keeps popup anchors and log lines stable.
package domain
