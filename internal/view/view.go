// Package view projects prediction records into the shapes the two display
// collaborators consume: clustered map markers and sortable list rows. The
// collaborators themselves (tile rendering, list widgets) are opaque; this
// package only prepares their inputs.
package view

import (
	"fmt"
	"time"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
)

// Marker is one geolocated, colored, labeled point for the map collaborator.
type Marker struct {
	ID       string     `json:"id"`
	Position domain.Geo `json:"position"`
	Color    string     `json:"color"`
	Popup    string     `json:"popup"`
}

// MapView is the full input to the map collaborator: markers plus the center
// and zoom to render them at.
type MapView struct {
	Center  domain.Geo `json:"center"`
	Zoom    int        `json:"zoom"`
	Markers []Marker   `json:"markers"`
}

// ListRow is one entry for the detail-list collaborator.
type ListRow struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	RiskLevel   domain.RiskLevel `json:"risk_level"`
	Color       string           `json:"color"`
	Probability float64          `json:"probability"`
	Cluster     int              `json:"spatial_cluster"`
	Latitude    float64          `json:"latitude"`
	Longitude   float64          `json:"longitude"`
	Date        time.Time        `json:"date"`
}

// BuildMapView assembles markers for the given records around the given
// center.
func BuildMapView(records []domain.PredictionRecord, center domain.Geo, zoom int) MapView {
	markers := make([]Marker, 0, len(records))
	for _, r := range records {
		markers = append(markers, Marker{
			ID:       r.ID(),
			Position: domain.Geo{Lat: r.Latitude, Lon: r.Longitude},
			Color:    domain.ColorFor(r.Probability),
			Popup:    popupContent(r),
		})
	}
	return MapView{Center: center, Zoom: zoom, Markers: markers}
}

// BuildList assembles detail rows. Title comes from the class-label lookup,
// falling back to the record's own crime_type.
func BuildList(records []domain.PredictionRecord) []ListRow {
	rows := make([]ListRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ListRow{
			ID:          r.ID(),
			Title:       r.Label(),
			RiskLevel:   domain.LevelFor(r.Probability),
			Color:       domain.ColorFor(r.Probability),
			Probability: r.Probability,
			Cluster:     r.SpatialCluster,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Date:        r.Date,
		})
	}
	return rows
}

func popupContent(r domain.PredictionRecord) string {
	return fmt.Sprintf("%s: %s risk (%.1f%%), cluster %d, %s",
		r.Label(),
		domain.LevelFor(r.Probability),
		r.Probability*100,
		r.SpatialCluster,
		r.Date.Format("2006-01-02 15:04"),
	)
}
