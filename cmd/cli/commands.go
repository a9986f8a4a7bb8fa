package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	season int
	force  bool
	teams  []string
)

func init() {
	startCmd.Flags().IntVar(&season, "season", 0, "Season id to analyse (server default when omitted)")
	startCmd.Flags().BoolVar(&force, "force", false, "Reprocess events that are already cached")
	compositeCmd.Flags().IntVar(&season, "season", 0, "Season id (server default when omitted)")
	compositeCmd.Flags().StringSliceVar(&teams, "teams", nil, "Team numbers, comma separated")
	_ = compositeCmd.MarkFlagRequired("teams")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(compositeCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a background analysis run over the tracked teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if season > 0 {
			q.Set("season", strconv.Itoa(season))
		}
		if force {
			q.Set("force", "true")
		}
		return performRequest(http.MethodPost, "/analysis/start", q)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the running analysis to stop after the current team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/analysis/stop", nil)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the worker status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/analysis/status", nil)
	},
}

var compositeCmd = &cobra.Command{
	Use:   "composite",
	Short: "Show composite strength scores for teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("teams", strings.Join(teams, ","))
		if season > 0 {
			q.Set("season", strconv.Itoa(season))
		}
		return performRequest(http.MethodGet, "/teams/composite", q)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get the current metrics from the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Follow the analysis log stream until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(host + "/analysis/stream")
		if err != nil {
			return fmt.Errorf("failed to connect to stream: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				fmt.Println(data)
			}
		}
		return scanner.Err()
	},
}

func performRequest(method, endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
