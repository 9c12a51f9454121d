// v0
// cmd/revelation/main.go
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"nrgchamp/animeitor/internal/domain"
	"nrgchamp/animeitor/internal/revelation"
)

// Offline driver for the closing-ceremony reveal: fetch /contest and
// /allruns_secret/<S> from a running server, build a revelation engine,
// and step through it from a terminal — a single step ("+1"), revealing
// down to the top N, or revealing everything. It fetches its two
// snapshots once at startup over plain HTTP rather than staying
// subscribed to /allruns_ws. Every invocation builds a fresh engine from
// the frozen snapshot, so no reveal state carries over between commands:
// repeating `step` repeats the same first step.

var (
	flagServer string
	flagSecret string
	flagSede   string
)

func main() {
	root := &cobra.Command{
		Use:   "revelation",
		Short: "Offline interactive driver for the contest revelation engine",
	}
	root.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8080", "base URL of a running animeitor server")
	root.PersistentFlags().StringVar(&flagSecret, "secret", "", "configured unguessable secret for the /allruns_secret/<S> route")
	root.PersistentFlags().StringVar(&flagSede, "sede", "", "sede name to announce a winner for, if any")

	root.AddCommand(
		newStepCmd(),
		newTopCmd(),
		newAllCmd(),
		newShowCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func fetchJSON(rawURL string, out interface{}) error {
	resp, err := httpClient.Get(rawURL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// newEngine builds a revelation.Engine from a running server's /contest
// and /allruns_secret/<S> endpoints.
func newEngine() (*revelation.Engine, error) {
	var contest domain.ContestFile
	if err := fetchJSON(flagServer+"/contest", &contest); err != nil {
		return nil, err
	}

	var runs domain.RunsFile
	runsURL := flagServer + "/allruns_secret/" + url.PathEscape(flagSecret)
	if err := fetchJSON(runsURL, &runs); err != nil {
		return nil, err
	}

	e := revelation.New(&contest, runs)
	if flagSede != "" {
		e.WithWinnerHook(flagSede, func(login, sede string) {
			fmt.Printf("winner: %s (sede=%s)\n", login, sede)
		})
	}
	return e, nil
}

func newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step",
		Short: "Perform one reveal step: at most one hidden run of the top team (the \"+1\" button)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			if err := e.RevealStep(); err != nil {
				return err
			}
			printScoreboard(e.Contest())
			return nil
		},
	}
}

func newTopCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Reveal down to the top N unsettled teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			if err := e.RevealTopN(n); err != nil {
				return err
			}
			printScoreboard(e.Contest())
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 10, "number of unsettled teams to leave in the heap")
	return cmd
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Reveal every remaining hidden run",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			for !e.IsEmpty() {
				if err := e.RevealStep(); err != nil {
					return err
				}
			}
			printScoreboard(e.Contest())
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current (frozen) scoreboard without revealing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine()
			if err != nil {
				return err
			}
			printScoreboard(e.Contest())
			return nil
		},
	}
}

func printScoreboard(c *domain.ContestFile) {
	logins := make([]string, 0, len(c.Teams))
	for login := range c.Teams {
		logins = append(logins, login)
	}
	sort.Slice(logins, func(i, j int) bool { return c.Teams[logins[i]].Placement < c.Teams[logins[j]].Placement })

	for _, login := range logins {
		team := c.Teams[login]
		score := team.Score()
		fmt.Printf("%3d  %-20s solved=%-3d penalty=%-6d frozen=%v\n",
			team.Placement, team.DisplayName, score.SolvedCount, score.PenaltyTotal, team.HasFrozenRuns())
	}
}
