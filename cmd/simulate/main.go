// Command simulate plays deep-sea diving episodes from the command line.
//
//	simulate run -c classic --seed 42          # render one episode turn by turn
//	simulate run -c duel -n 10 --trace out.jsonl.zst --quiet
//	simulate tournament -c classic -n 500 --results-db results.db
//	simulate strategies
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/deepsea/game/config"
	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/results"
	"github.com/wricardo/mcp-training/deepsea/game/service"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
	"github.com/wricardo/mcp-training/deepsea/game/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func tableFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "classic",
			Usage:   "table config name",
		},
		&cli.StringFlag{
			Name:    "configs-dir",
			Value:   "configs",
			Usage:   "directory holding table configs",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "seed of the first episode (default: config seed, then the clock)",
		},
		&cli.StringFlag{
			Name:    "results-db",
			Usage:   "record finished episodes in this SQLite file",
			Sources: cli.EnvVars("RESULTS_DB"),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "debug logging",
		},
	}
}

// newApp builds the CLI writing its reports to out.
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play deep-sea diving episodes with scripted divers",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "play episodes, rendering every turn",
				Flags: append(tableFlags(),
					&cli.IntFlag{
						Name:    "episodes",
						Aliases: []string{"n"},
						Value:   1,
						Usage:   "number of episodes",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "do not render the board",
					},
					&cli.StringFlag{
						Name:  "trace",
						Usage: "write every transition to this .jsonl.zst file",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runEpisodes(ctx, cmd, out, !cmd.Bool("quiet"))
				},
			},
			{
				Name:  "tournament",
				Usage: "play many seeded episodes and compare the seats",
				Flags: append(tableFlags(),
					&cli.IntFlag{
						Name:    "episodes",
						Aliases: []string{"n"},
						Value:   100,
						Usage:   "number of episodes",
					},
					&cli.StringFlag{
						Name:  "trace",
						Usage: "write every transition to this .jsonl.zst file",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runEpisodes(ctx, cmd, out, false)
				},
			},
			{
				Name:  "strategies",
				Usage: "list the scripted strategies",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					for _, name := range strategy.Names() {
						fmt.Fprintln(out, strategy.Describe(engine.PlayerSpec{Strategy: name}))
					}
					return nil
				},
			},
		},
	}
}

// loadTable reads the named table from dir. The built-in classic table is
// used when dir has none.
func loadTable(dir, name string) (*engine.TableConfig, error) {
	manager, err := config.NewManager(dir)
	if err == nil {
		table, loadErr := manager.LoadConfig(name)
		if loadErr == nil {
			return table, nil
		}
		err = loadErr
	}
	if name == "" || name == "classic" {
		log.Debugf("using built-in classic table: %v", err)
		return engine.DefaultTableConfig(), nil
	}
	return nil, fmt.Errorf("config %s: %w", name, err)
}

func runEpisodes(ctx context.Context, cmd *cli.Command, out io.Writer, render bool) error {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	table, err := loadTable(cmd.String("configs-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	episodes := int(cmd.Int("episodes"))
	if episodes < 1 {
		return fmt.Errorf("episodes must be at least 1, got %d", episodes)
	}

	var requested *int64
	if cmd.IsSet("seed") {
		seed := int64(cmd.Int("seed"))
		requested = &seed
	}
	seed := service.ResolveSeed(requested, table)

	sim := &simulation{
		name:   table.Name,
		table:  table,
		out:    out,
		render: render,
	}

	if path := cmd.String("trace"); path != "" {
		tw, err := trace.Create(path)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}
		defer tw.Close()
		sim.trace = tw
	}

	if path := cmd.String("results-db"); path != "" {
		store, err := results.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		sim.store = store
	}

	start := time.Now()
	st, err := sim.run(ctx, episodes, seed)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"config":   table.Name,
		"episodes": st.Episodes,
		"seed":     seed,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("simulation finished")

	printStandings(out, table, st, seed)

	if sim.store != nil {
		summary, err := sim.store.Summary(ctx, table.Name)
		if err != nil {
			return err
		}
		printSummary(out, summary)
	}
	return nil
}

// printSummary writes the stored all-time results per strategy.
func printSummary(out io.Writer, summary []results.StrategySummary) {
	fmt.Fprintln(out, "All recorded episodes:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tSEATS\tAVG\tBEST\tWIN%\tZEROES")
	for _, s := range summary {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%d\t%.1f\t%d\n",
			s.Strategy, s.Seats, s.AvgScore, s.MaxScore, 100*s.WinRate(), s.Zeroes)
	}
	tw.Flush()
}

// printStandings writes one row per seat, best average first.
func printStandings(out io.Writer, table *engine.TableConfig, st *standings, seed int64) {
	fmt.Fprintf(out, "%s: %d episode(s) from seed %d\n", table.Name, st.Episodes, seed)

	scores := make([]int, len(st.Totals))
	copy(scores, st.Totals)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEAT\tNAME\tSTRATEGY\tAVG\tBEST\tWINS\tZEROES")
	for _, seat := range engine.Ranking(scores) {
		name, strat := "", ""
		if seat < len(st.Seats) {
			name, strat = st.Seats[seat].Name, st.Seats[seat].Strategy
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\t%d\t%d\n",
			seat, name, strat, st.Average(seat), st.Best[seat], st.Wins[seat], st.Zeroes[seat])
	}
	tw.Flush()
	fmt.Fprintln(out, strings.Repeat("-", 40))
}
