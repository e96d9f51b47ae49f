// Command analyze prints quick, human-readable reports about the table
// configs in the configs directory and, when given a results database, the
// recorded performance of each strategy. Config heuristics flag seats whose
// parameters make a strategy degenerate: divers that never pick, grabbers
// asking for more than they can carry, tables without any competition.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/wricardo/mcp-training/deepsea/game/config"
	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/results"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

func main() {
	dir := flag.String("configs", "configs", "Directory holding table configs")
	db := flag.String("db", os.Getenv("RESULTS_DB"), "Results database to report on")
	only := flag.String("config", "", "Restrict the results report to one config")
	recent := flag.Int("recent", 5, "Number of recent episodes to list")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*dir, "*"))
	if err != nil {
		fmt.Printf("Error listing configs: %v\n", err)
		os.Exit(1)
	}
	for _, path := range files {
		if !config.IsConfigFile(path) {
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
		analyzeConfig(os.Stdout, path)
	}

	if *db != "" {
		fmt.Printf("\n=== Results from %s ===\n", *db)
		if err := reportResults(context.Background(), os.Stdout, *db, *only, *recent); err != nil {
			fmt.Printf("Error reading results: %v\n", err)
			os.Exit(1)
		}
	}
}

func analyzeConfig(w io.Writer, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error reading file: %v\n", err)
		return
	}

	table, err := config.ParseTableConfig(data, filepath.Base(path))
	if err != nil {
		fmt.Fprintf(w, "Error parsing config: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", table.Name)
	fmt.Fprintf(w, "Seats: %d of %d\n", len(table.Players), engine.MaxPlayers)
	if table.Seed != nil {
		fmt.Fprintf(w, "Fixed seed: %d\n", *table.Seed)
	}

	mix := make(map[string]int)
	for i, p := range table.Players {
		mix[p.Strategy]++
		fmt.Fprintf(w, "  seat %d: %-12s %s\n", i, p.Name, strategy.Describe(p))
	}
	fmt.Fprintf(w, "Strategies in play: %d\n", len(mix))

	warnings := seatWarnings(table)
	if len(table.Players) == 1 {
		warnings = append(warnings, "single seat: nobody shares the oxygen, scores only measure the strategy alone")
	}

	if len(warnings) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d questionable seat(s)\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "   %s\n", msg)
		}
	} else {
		fmt.Fprintf(w, "✅ Every seat plays a meaningful strategy\n")
	}
}

// seatWarnings lists parameter choices that collapse a strategy into
// something trivial.
func seatWarnings(table *engine.TableConfig) []string {
	var out []string
	for i, p := range table.Players {
		n, hasN := p.Params["n"]
		depth, hasDepth := p.Params["depth"]

		switch p.Strategy {
		case "grabber":
			if hasN && n == 0 {
				out = append(out, fmt.Sprintf("seat %d (%s): grabber n=0 turns back empty-handed", i, p.Name))
			}
			if n > engine.MaxCarry {
				out = append(out, fmt.Sprintf("seat %d (%s): n=%d is above the carry limit of %d", i, p.Name, n, engine.MaxCarry))
			}
		case "diver":
			if hasN && n == 0 && depth < engine.PathLength {
				out = append(out, fmt.Sprintf("seat %d (%s): diver n=0 only picks at its turning depth", i, p.Name))
			}
			if n > engine.MaxCarry {
				out = append(out, fmt.Sprintf("seat %d (%s): n=%d is above the carry limit of %d", i, p.Name, n, engine.MaxCarry))
			}
		case "greedy":
			if hasDepth && depth >= engine.PathLength {
				out = append(out, fmt.Sprintf("seat %d (%s): greedy depth %d never reaches a tile past it", i, p.Name, depth))
			}
		}
	}
	return out
}

// reportResults prints the per-strategy summary and the latest episodes.
func reportResults(ctx context.Context, w io.Writer, path, configName string, recent int) error {
	store, err := results.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count(ctx, configName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Episodes recorded: %d\n", count)
	if count == 0 {
		return nil
	}

	summary, err := store.Summary(ctx, configName)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSEATS\tAVG\tBEST\tWIN%\tZEROES")
	for _, s := range summary {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%.1f\t%d\n",
			s.Strategy, s.Seats, s.AvgScore, s.MaxScore, 100*s.WinRate(), s.Zeroes)
	}
	tw.Flush()

	if recent <= 0 {
		return nil
	}
	episodes, err := store.Recent(ctx, configName, recent)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Latest %d episode(s):\n", len(episodes))
	for _, ep := range episodes {
		fmt.Fprintf(w, "  %s %s seed=%d steps=%d", ep.FinishedAt.Format("2006-01-02 15:04:05"), ep.ConfigName, ep.Seed, ep.Steps)
		for _, seat := range ep.Seats {
			fmt.Fprintf(w, " %s:%d", seat.Name, seat.Score)
		}
		fmt.Fprintln(w)
	}
	return nil
}
