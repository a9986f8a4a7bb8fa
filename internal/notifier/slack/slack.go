package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/metrics"
	"github.com/mauv0809/team-scout/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendRunSummary posts the outcome of a background analysis run.
func (s *Notifier) SendRunSummary(summary notifier.RunSummary, dryRun bool) error {
	msg := s.formatRunSummary(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatRunSummary creates the Slack message for a finished run using Block Kit.
func (s *Notifier) formatRunSummary(summary notifier.RunSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	title := "✅ Team analysis complete"
	if summary.Stopped {
		title = "⏹️ Team analysis stopped"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	mode := "incremental"
	if summary.Force {
		mode = "forced"
	}
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Season:*\n%d", summary.SeasonID), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Mode:*\n%s", mode), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Teams:*\n%d / %d", summary.Processed, summary.TotalTeams), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Duration:*\n%s", summary.Duration.Round(time.Second)), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if len(summary.Failed) > 0 {
		failedText := fmt.Sprintf("*Failed (%d):* %s", len(summary.Failed), strings.Join(summary.Failed, ", "))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", failedText, false, false), nil, nil))
	}

	var contextElements []slack.MixedElement
	contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Run "+summary.RunID, true, false))
	if summary.RateLimited > 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("Rate limited %d time(s)", summary.RateLimited), true, false))
	}
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}
