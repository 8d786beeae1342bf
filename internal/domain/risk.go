package domain

// RiskLevel is the user-facing severity bucket for a prediction.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "High"
	RiskMedium  RiskLevel = "Medium"
	RiskLow     RiskLevel = "Low"
	RiskVeryLow RiskLevel = "VeryLow"
)

// Marker colors, one per risk bucket.
const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorBlue   = "blue"
	ColorGreen  = "green"
)

// Shared classification breakpoints. ColorFor and LevelFor must bucket every
// probability identically, so both go through riskBucket.
const (
	thresholdHigh   = 0.50
	thresholdMedium = 0.20
	thresholdLow    = 0.05
)

type bucket int

const (
	bucketHigh bucket = iota
	bucketMedium
	bucketLow
	bucketVeryLow
)

// riskBucket assigns a probability to one of the four buckets. Boundaries are
// inclusive on the low edge: 0.50 is High, 0.05 is Low. Total over all finite
// inputs; out-of-range values land in the extreme buckets.
func riskBucket(probability float64) bucket {
	switch {
	case probability >= thresholdHigh:
		return bucketHigh
	case probability >= thresholdMedium:
		return bucketMedium
	case probability >= thresholdLow:
		return bucketLow
	default:
		return bucketVeryLow
	}
}

// ColorFor maps a probability to its marker color.
func ColorFor(probability float64) string {
	switch riskBucket(probability) {
	case bucketHigh:
		return ColorRed
	case bucketMedium:
		return ColorOrange
	case bucketLow:
		return ColorBlue
	default:
		return ColorGreen
	}
}

// LevelFor maps a probability to its risk level.
func LevelFor(probability float64) RiskLevel {
	switch riskBucket(probability) {
	case bucketHigh:
		return RiskHigh
	case bucketMedium:
		return RiskMedium
	case bucketLow:
		return RiskLow
	default:
		return RiskVeryLow
	}
}
