package robotevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/team-scout/internal/config"
	"golang.org/x/time/rate"
)

const defaultPerPage = 250

// APIClient talks to the RobotEvents v2 API. Every request waits on a shared
// limiter so callers never exceed the configured request rate.
type APIClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	BaseURL    string
	token      string
	perPage    int
}

// NewClient creates a new RobotEvents client from configuration.
func NewClient(cfg config.RobotEventsConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		BaseURL:    cfg.BaseURL,
		token:      cfg.Token,
		perPage:    perPage,
	}
}

// Ensure APIClient implements the RobotEventsClient interface.
var _ RobotEventsClient = (*APIClient)(nil)

// GetTeamByNumber resolves a team designator to the provider's team record.
func (c *APIClient) GetTeamByNumber(ctx context.Context, number string) (Team, error) {
	q := url.Values{}
	q.Add("number[]", number)
	var resp page[Team]
	if err := c.get(ctx, "/teams", q, &resp); err != nil {
		return Team{}, err
	}
	for _, t := range resp.Data {
		if strings.EqualFold(t.Number, number) {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, number)
}

// GetTeamEvents lists every event the team attended in a season, in provider order.
func (c *APIClient) GetTeamEvents(ctx context.Context, teamID, seasonID int) ([]Event, error) {
	q := url.Values{}
	q.Add("season[]", strconv.Itoa(seasonID))
	return getAllPages[Event](ctx, c, fmt.Sprintf("/teams/%d/events", teamID), q)
}

// GetEvent fetches a single event including its divisions.
func (c *APIClient) GetEvent(ctx context.Context, eventID int) (Event, error) {
	var event Event
	if err := c.get(ctx, fmt.Sprintf("/events/%d", eventID), nil, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// GetDivisionMatches fetches all matches of one division, following pagination.
func (c *APIClient) GetDivisionMatches(ctx context.Context, eventID, divisionID int) ([]Match, error) {
	return getAllPages[Match](ctx, c, fmt.Sprintf("/events/%d/divisions/%d/matches", eventID, divisionID), nil)
}

// GetTeamSkills lists the team's skills runs for a season.
func (c *APIClient) GetTeamSkills(ctx context.Context, teamID, seasonID int) ([]SkillRun, error) {
	q := url.Values{}
	q.Add("season[]", strconv.Itoa(seasonID))
	return getAllPages[SkillRun](ctx, c, fmt.Sprintf("/teams/%d/skills", teamID), q)
}

func getAllPages[T any](ctx context.Context, c *APIClient, path string, query url.Values) ([]T, error) {
	var all []T
	for pageNum := 1; ; pageNum++ {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(pageNum))
		q.Set("per_page", strconv.Itoa(c.perPage))

		var resp page[T]
		if err := c.get(ctx, path, q, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		log.Debug("Fetched page", "path", path, "page", pageNum, "last_page", resp.Meta.LastPage, "count", len(resp.Data))

		if resp.Meta.LastPage <= pageNum {
			break
		}
	}
	return all, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "TeamScout/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug("Requesting RobotEvents API", "url", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{URL: u, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error("Received non-OK HTTP status from RobotEvents API", "status", resp.StatusCode, "url", u)
		return &ProviderError{StatusCode: resp.StatusCode, URL: u, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{StatusCode: resp.StatusCode, URL: u, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
