// Command bruteforcer drives a running diving server over its REST API.
// In seed mode it replays one table with consecutive seeds until a seat
// reaches a target score. In sweep mode it swaps every scripted strategy
// setting into one seat and ranks them over a fixed set of seeds.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

const sessionFile = ".session"

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configName := flag.String("config", "", "Table configuration name (classic, duel, solo)")
	continueSession := flag.String("continue", "", "Resume an existing session by ID")
	seat := flag.Int("seat", 0, "Seat whose score is maximized")
	firstSeed := flag.Int64("seed", 1, "First seed to try")
	maxAttempts := flag.Int("max-attempts", 100, "Seeds to try in seed mode, seeds per candidate in sweep mode")
	target := flag.Int("target", 0, "Stop once the seat scores at least this much (0 = try every seed)")
	doSweep := flag.Bool("sweep", false, "Sweep strategy parameters for the seat instead of seeds")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	if *doSweep {
		if err := runSweep(ctx, os.Stdout, client, *configName, *seat, *firstSeed, *maxAttempts); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		return
	}

	savedSessionID := *continueSession
	if savedSessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.Use(savedSessionID)
		if _, err := client.GetState(ctx); err != nil {
			log.Warnf("Failed to resume session %s (may be expired): %v", savedSessionID, err)
			savedSessionID = ""
		} else {
			log.Infof("Resuming session: %s", savedSessionID)
		}
	}

	if savedSessionID == "" {
		if _, err := client.CreateSession(ctx, *configName, nil); err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Infof("Session created: %s", client.SessionID())
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.Warnf("Failed to save session ID: %v", err)
		}
	}

	best, reached, err := seedSearch(ctx, client, *seat, *firstSeed, *maxAttempts, *target)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	if best == nil {
		log.Fatal("No attempt finished")
	}

	log.Infof("Best for seat %d: %d points with seed %d in %d steps (scores %v)",
		*seat, best.Scores[*seat], best.Seed, best.Steps, best.Scores)
	log.Infof("Session: %s", client.SessionID())

	if *target > 0 && !reached {
		log.Errorf("Target %d not reached after %d attempts", *target, *maxAttempts)
		os.Exit(1)
	}
}

// runSweep loads configName from the server, sweeps the seat and prints
// the ranking.
func runSweep(ctx context.Context, out io.Writer, client *Client, configName string, seat int, firstSeed int64, seedCount int) error {
	if configName == "" {
		configName = "classic"
	}
	base, err := client.LoadConfig(ctx, configName)
	if err != nil {
		return err
	}

	seeds := make([]int64, seedCount)
	for i := range seeds {
		seeds[i] = firstSeed + int64(i)
	}

	ranked, err := sweep(ctx, client, base, base.Name+"-sweep", seat, candidates(), seeds)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Seat %d of %s over %d seeds:\n", seat, base.Name, len(seeds))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSTRATEGY\tAVG\tWINS")
	for i, cand := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\n", i+1, strategy.Describe(cand.Spec), cand.Average(), cand.Wins)
	}
	return tw.Flush()
}
