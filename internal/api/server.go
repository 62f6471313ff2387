package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmarsden/galewatch/internal/store"
)

type Server struct {
	store *store.Store
	port  string

	// staleThreshold is how old a site status may be before /health reports
	// the farm as stale.
	staleThreshold time.Duration
}

func NewServer(store *store.Store, port string) *Server {
	return &Server{
		store:          store,
		port:           port,
		staleThreshold: 60 * time.Minute,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/synoptic", s.handleSynoptic)
	mux.HandleFunc("/api/fleet", s.handleFleet)
	mux.HandleFunc("/api/farms", s.handleFarms)
	mux.HandleFunc("/api/ingest", s.handleIngestHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
