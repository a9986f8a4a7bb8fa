package http

import (
	"net/http"

	"github.com/mauv0809/team-scout/internal/config"
	"github.com/mauv0809/team-scout/internal/scouting"
)

func NewServer(store scouting.ScoutingStore, w AnalysisWorker, logStream LogStream, scorer CompositeScorer, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Worker:         w,
		Stream:         logStream,
		Scorer:         scorer,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /analysis/start", Chain(s.StartAnalysisHandler(), paramsMiddleware))
	s.Router.Handle("POST /analysis/stop", Chain(s.StopAnalysisHandler(), paramsMiddleware))
	s.Router.Handle("GET /analysis/status", Chain(s.AnalysisStatusHandler(), paramsMiddleware))
	s.Router.Handle("GET /analysis/stream", Chain(s.AnalysisStreamHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams/composite", Chain(s.CompositeScoreHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams/{number}/stats", Chain(s.TeamStatsHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
