package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lmarsden/galewatch/internal/models"
)

type geoJSONFile struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Name       string  `json:"name"`
			CapacityMW float64 `json:"capacity_mw"`
		} `json:"properties"`
	} `json:"features"`
}

// LoadFarms reads wind farm sites from a GeoJSON FeatureCollection of Points.
// Coordinates follow the GeoJSON convention: [longitude, latitude].
func LoadFarms(path string) ([]models.WindFarm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read farms file: %w", err)
	}

	var gj geoJSONFile
	if err := json.Unmarshal(raw, &gj); err != nil {
		return nil, fmt.Errorf("parse farms geojson: %w", err)
	}

	var farms []models.WindFarm
	for i, feature := range gj.Features {
		if feature.Geometry.Type != "Point" {
			return nil, fmt.Errorf("feature %d: geometry type %q, want Point", i, feature.Geometry.Type)
		}
		if len(feature.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("feature %d: bad coordinates", i)
		}
		if feature.Properties.Name == "" {
			return nil, fmt.Errorf("feature %d: missing name property", i)
		}
		farms = append(farms, models.WindFarm{
			Name:       feature.Properties.Name,
			Longitude:  feature.Geometry.Coordinates[0],
			Latitude:   feature.Geometry.Coordinates[1],
			CapacityMW: feature.Properties.CapacityMW,
			Active:     true,
		})
	}
	return farms, nil
}
