package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/scouting"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) StartAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasonID, err := s.seasonParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		force := r.URL.Query().Get("force") == "true"

		started := s.Worker.Start(seasonID, force)
		code := http.StatusAccepted
		if !started {
			log.Info("Analysis start rejected, already running")
			code = http.StatusConflict
		}
		writeJSON(w, code, StartResponse{Started: started, Status: s.Worker.Status()})
	}
}

func (s *Server) StopAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Worker.RequestStop()
		writeJSON(w, http.StatusAccepted, s.Worker.Status())
	}
}

func (s *Server) AnalysisStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Worker.Status())
	}
}

func (s *Server) CompositeScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasonID, err := s.seasonParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		teams := strings.Split(r.URL.Query().Get("teams"), ",")
		if len(teams) == 1 && strings.TrimSpace(teams[0]) == "" {
			http.Error(w, "teams parameter is required", http.StatusBadRequest)
			return
		}

		scores, err := s.Scorer.GetCompositeScore(r.Context(), seasonID, teams)
		if err != nil {
			log.Error("Failed to compute composite scores", "error", err)
			http.Error(w, "Failed to compute composite scores", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, scores)
	}
}

func (s *Server) TeamStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasonID, err := s.seasonParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		number := strings.ToUpper(r.PathValue("number"))

		stats, err := s.Store.GetTeamEventStats(r.Context(), number, seasonID)
		if err != nil {
			log.Error("Failed to get team stats", "error", err, "team", number)
			http.Error(w, "Failed to get team stats", http.StatusInternalServerError)
			return
		}
		if stats == nil {
			stats = []scouting.TeamEventStats{}
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// seasonParam reads the 'season' query parameter, falling back to the configured default.
func (s *Server) seasonParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return s.Cfg.Worker.DefaultSeasonID, nil
	}
	seasonID, err := strconv.Atoi(raw)
	if err != nil || seasonID <= 0 {
		return 0, fmt.Errorf("invalid season %q", raw)
	}
	return seasonID, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
