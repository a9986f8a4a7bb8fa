package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/config"
	"github.com/mauv0809/team-scout/internal/database"
	server "github.com/mauv0809/team-scout/internal/http"
	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/notifier/slack"
	"github.com/mauv0809/team-scout/internal/processor"
	"github.com/mauv0809/team-scout/internal/pubsub"
	"github.com/mauv0809/team-scout/internal/robotevents"
	"github.com/mauv0809/team-scout/internal/scheduler"
	"github.com/mauv0809/team-scout/internal/scouting"
	"github.com/mauv0809/team-scout/internal/stream"
	"github.com/mauv0809/team-scout/internal/strength"
	"github.com/mauv0809/team-scout/internal/teamsync"
	"github.com/mauv0809/team-scout/internal/worker"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	var publisher pubsub.PubSubClient
	if cfg.ProjectID != "" {
		publisher, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("GCP_PROJECT not set, event analyzed messages are disabled")
		publisher = pubsub.NewNoop()
	}
	defer publisher.Close()

	store := scouting.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	broadcaster := stream.NewBroadcaster()
	client := robotevents.NewClient(cfg.RobotEvents)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	proc := processor.New(client, store, broadcaster, metricsSvc, publisher)
	syncer := teamsync.New(client, store, proc, broadcaster)
	w := worker.New(store, syncer, broadcaster, notifier, metricsSvc, worker.Config{
		Cooldown:         cfg.Worker.Cooldown,
		RateLimitBackoff: cfg.Worker.RateLimitBackoff,
		NotifyDryRun:     !cfg.Slack.Enabled(),
	})

	sched := scheduler.New(cfg.Worker.Cron, cfg.Worker.DefaultSeasonID, w)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %s", err)
	}

	s := server.NewServer(store, w, broadcaster, strength.NewService(store), metricsHandler, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sched.Stop()
		w.RequestStop()
		finished := make(chan struct{})
		go func() {
			w.Wait()
			close(finished)
		}()
		select {
		case <-finished:
			log.Info("Analysis worker stopped")
		case <-ctx.Done():
			log.Warn("Analysis worker did not stop in time")
		}

		// Stream subscribers hold their requests open until the broadcaster closes.
		broadcaster.Close()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
