package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	DBName    string `envconfig:"DB_NAME" default:"scout.db"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	ProjectID string `envconfig:"GCP_PROJECT"`

	Turso       TursoConfig
	RobotEvents RobotEventsConfig
	Worker      WorkerConfig
	Slack       SlackConfig
}

type TursoConfig struct {
	PrimaryURL string `envconfig:"TURSO_PRIMARY_URL"`
	AuthToken  string `envconfig:"TURSO_AUTH_TOKEN"`
}

type RobotEventsConfig struct {
	BaseURL string        `envconfig:"ROBOTEVENTS_BASE_URL" default:"https://www.robotevents.com/api/v2"`
	Token   string        `envconfig:"ROBOTEVENTS_TOKEN"`
	Timeout time.Duration `envconfig:"ROBOTEVENTS_TIMEOUT" default:"30s"`
	// RateLimit is requests per second; zero disables client-side pacing.
	RateLimit float64 `envconfig:"ROBOTEVENTS_RATE_LIMIT" default:"2"`
	PerPage   int     `envconfig:"ROBOTEVENTS_PER_PAGE" default:"250"`
}

type WorkerConfig struct {
	Cooldown         time.Duration `envconfig:"WORKER_COOLDOWN" default:"3s"`
	RateLimitBackoff time.Duration `envconfig:"WORKER_RATE_LIMIT_BACKOFF" default:"60s"`
	DefaultSeasonID  int           `envconfig:"DEFAULT_SEASON_ID" default:"190"`
	// Cron is a robfig/cron spec; empty disables scheduled runs.
	Cron string `envconfig:"ANALYSIS_CRON"`
}

type SlackConfig struct {
	Token     string `envconfig:"SLACK_BOT_TOKEN"`
	ChannelID string `envconfig:"SLACK_CHANNEL_ID"`
}

// Enabled reports whether run summaries should be posted.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}
