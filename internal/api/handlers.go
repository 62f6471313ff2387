package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lmarsden/galewatch/internal/impact"
	"github.com/lmarsden/galewatch/internal/models"
	"github.com/lmarsden/galewatch/internal/synoptic"
)

// SiteStatusResponse is one farm's analysis result as served by /api/status.
type SiteStatusResponse struct {
	FarmName   string               `json:"farm_name"`
	ComputedAt time.Time            `json:"computed_at"`
	Status     impact.OverallStatus `json:"status"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if site := r.URL.Query().Get("site"); site != "" {
		ss, err := s.store.GetSiteStatus(site)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if ss == nil {
			http.Error(w, "unknown site: "+site, http.StatusNotFound)
			return
		}
		writeJSON(w, SiteStatusResponse{FarmName: ss.FarmName, ComputedAt: ss.ComputedAt, Status: ss.Status})
		return
	}

	statuses, err := s.store.GetSiteStatuses()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]SiteStatusResponse, 0, len(statuses))
	for _, ss := range statuses {
		resp = append(resp, SiteStatusResponse{FarmName: ss.FarmName, ComputedAt: ss.ComputedAt, Status: ss.Status})
	}
	writeJSON(w, resp)
}

// AnnotatedGridPoint decorates a grid point with display glyphs for map
// overlays.
type AnnotatedGridPoint struct {
	models.GridPoint
	WindArrow          string `json:"wind_arrow"`
	WeatherSymbol      string `json:"weather_symbol"`
	WeatherDescription string `json:"weather_description"`
}

// SynopticResponse is the latest synoptic snapshot as served by
// /api/synoptic.
type SynopticResponse struct {
	ScannedAt time.Time                 `json:"scanned_at"`
	Grid      []AnnotatedGridPoint      `json:"grid"`
	Systems   []synoptic.PressureSystem `json:"systems"`
	Fronts    []synoptic.Front          `json:"fronts"`
	Motion    synoptic.Motion           `json:"motion"`
}

func (s *Server) handleSynoptic(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetLatestSynopticSnapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.Error(w, "no synoptic snapshot yet", http.StatusNotFound)
		return
	}

	resp := SynopticResponse{
		ScannedAt: snap.ScannedAt,
		Grid:      make([]AnnotatedGridPoint, 0, len(snap.Grid)),
		Systems:   snap.Systems,
		Fronts:    snap.Fronts,
		Motion:    snap.Motion,
	}
	for _, point := range snap.Grid {
		resp.Grid = append(resp.Grid, AnnotatedGridPoint{
			GridPoint:          point,
			WindArrow:          synoptic.WindArrow(point.WindDirDeg),
			WeatherSymbol:      synoptic.WeatherSymbol(point.WeatherCode),
			WeatherDescription: synoptic.WeatherDescription(point.WeatherCode),
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.store.GetSiteStatuses()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	farms, err := s.store.GetActiveFarms()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	byName := make(map[string]impact.OverallStatus, len(statuses))
	for _, ss := range statuses {
		byName[ss.FarmName] = ss.Status
	}
	capacities := make(map[string]float64, len(farms))
	for _, f := range farms {
		capacities[f.Name] = f.CapacityMW
	}

	writeJSON(w, impact.Summarize(byName, capacities))
}

func (s *Server) handleFarms(w http.ResponseWriter, r *http.Request) {
	farms, err := s.store.GetActiveFarms()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if farms == nil {
		farms = []models.WindFarm{}
	}
	writeJSON(w, farms)
}

func (s *Server) handleIngestHealth(w http.ResponseWriter, r *http.Request) {
	health, err := s.store.GetIngestHealth(7)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, health)
}

// FarmHealth is one farm's freshness entry in the /health response.
type FarmHealth struct {
	FarmName   string    `json:"farm_name"`
	LastSeen   time.Time `json:"last_seen,omitempty"`
	AgeMinutes int       `json:"age_minutes"`
	Stale      bool      `json:"stale"`
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status string       `json:"status"`
	Farms  []FarmHealth `json:"farms"`
	Errors []string     `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	farms, err := s.store.GetActiveFarms()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}

	health := HealthStatus{
		Status: "ok",
		Farms:  make([]FarmHealth, 0, len(farms)),
	}

	now := time.Now()
	for _, farm := range farms {
		ss, err := s.store.GetSiteStatus(farm.Name)
		if err != nil {
			health.Errors = append(health.Errors, farm.Name+": "+err.Error())
			continue
		}

		fh := FarmHealth{FarmName: farm.Name}
		if ss != nil {
			fh.LastSeen = ss.ComputedAt
			fh.AgeMinutes = int(now.Sub(ss.ComputedAt).Minutes())
			fh.Stale = now.Sub(ss.ComputedAt) > s.staleThreshold
		} else {
			fh.Stale = true
			fh.AgeMinutes = -1
		}

		if fh.Stale {
			health.Status = "degraded"
		}
		health.Farms = append(health.Farms, fh)
	}

	if len(health.Errors) > 0 {
		health.Status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("health: write response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}
