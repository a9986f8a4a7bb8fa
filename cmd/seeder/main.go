package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/config"
	"github.com/mauv0809/team-scout/internal/database"
	"github.com/mauv0809/team-scout/internal/scouting"
)

// defaultTeams is used when no team numbers are passed on the command line.
var defaultTeams = []string{"229V", "1698V", "2114A", "8059A", "99904A"}

func main() {
	log.Info("Starting roster seeder...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	teams := defaultTeams
	if len(os.Args) > 1 {
		teams = os.Args[1:]
	}

	store := scouting.New(db)
	ctx := context.Background()
	seeded := 0
	for _, team := range teams {
		team = strings.ToUpper(strings.TrimSpace(team))
		if team == "" {
			continue
		}
		if err := store.AddTrackedTeam(ctx, team); err != nil {
			log.Error("Failed to track team", "team", team, "error", err)
			continue
		}
		seeded++
		log.Info("Tracking team", "team", team)
	}

	log.Info("Roster seeding finished", "teams", seeded)
}
