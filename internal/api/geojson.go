package api

import (
	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toGeoJSON(zones []models.Zone) FeatureCollection {
	features := make([]Feature, 0, len(zones))

	for _, z := range zones {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{z.Longitude, z.Latitude},
			},
			Properties: map[string]any{
				"id":       z.ID,
				"name":     z.Name,
				"type":     z.Type,
				"severity": z.Severity,
				"affected": z.Affected,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
