package http

import (
	"context"
	"net/http"

	"github.com/mauv0809/team-scout/internal/config"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/mauv0809/team-scout/internal/strength"
	"github.com/mauv0809/team-scout/internal/worker"
)

// AnalysisWorker is the control surface of the background worker.
type AnalysisWorker interface {
	Start(seasonID int, force bool) bool
	RequestStop()
	Status() worker.Status
}

// LogStream hands out subscriptions to the worker's log stream.
type LogStream interface {
	Subscribe(buffer int) (<-chan stream.Message, func())
}

// CompositeScorer answers composite strength queries.
type CompositeScorer interface {
	GetCompositeScore(ctx context.Context, seasonID int, teamNumbers []string) ([]strength.Composite, error)
}

type Server struct {
	Store          scouting.ScoutingStore
	Worker         AnalysisWorker
	Stream         LogStream
	Scorer         CompositeScorer
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

// StartResponse is returned by the start endpoint.
type StartResponse struct {
	Started bool          `json:"started"`
	Status  worker.Status `json:"status"`
}
