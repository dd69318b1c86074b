// Package api exposes the REST surface that feeds the display: target
// updates in, live status out.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fcurrie/led-shine-golang/internal/config"
	"github.com/fcurrie/led-shine-golang/internal/state"
)

// Server handles the HTTP API on the configured port.
type Server struct {
	store *state.Store
	cfg   *config.Config
	start time.Time
	srv   *http.Server
}

// NewServer wires the handlers onto a fresh mux.
func NewServer(store *state.Store, cfg *config.Config) *Server {
	s := &Server{
		store: store,
		cfg:   cfg,
		start: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/update", s.handleUpdate)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: cors(mux),
	}
	return s
}

// ListenAndServe blocks serving the API until Shutdown is called.
func (s *Server) ListenAndServe() error {
	log.Printf("API: Listening on port %d", s.cfg.API.Port)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// cors adds the permissive browser headers and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "X-API-Token, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-API-Token") != s.cfg.API.Token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var cmd state.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := s.store.Apply(cmd); err != nil {
		if errors.Is(err, state.ErrNoFields) {
			http.Error(w, "No valid fields", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	target, _ := s.store.Target()
	log.Printf("API: Updated Targets (Mode=%s, Color=%.1f, Geom=%s)", target.Mode, target.Heat, target.Geometry)

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "OK")
}

// statusPayload is the shape served by /status and pushed over /ws.
type statusPayload struct {
	Colour   float32    `json:"colour"`
	Geometry string     `json:"geometry"`
	Segments []float32  `json:"segments"`
	Age      float64    `json:"age"`
	Quiet    bool       `json:"quiet"`
	Mode     state.Mode `json:"mode"`
	Width    float32    `json:"width"`
	Percent  float32    `json:"percent"`
}

func (s *Server) status() statusPayload {
	live, age := s.store.Snapshot()
	blank := s.cfg.Render.BlankInterval
	return statusPayload{
		Colour:   live.Heat,
		Geometry: live.Geometry.String(),
		Segments: live.Segments[:],
		Age:      age,
		Quiet:    blank != 0 && age > blank,
		Mode:     live.Mode,
		Width:    live.Width,
		Percent:  live.Percent,
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.status())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"width":         s.cfg.Display.Width,
		"height":        s.cfg.Display.Height,
		"segments":      state.SegmentCount,
		"blankInterval": s.cfg.Render.BlankInterval,
		"animStep":      state.AnimRate,
		"targetFps":     s.cfg.Render.TargetFPS,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"uptime": int(time.Since(s.start).Seconds()),
	})
}
