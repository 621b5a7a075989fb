// Command crewsim runs a batch of crew contagion simulations from an
// experiment file and stores the results in SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/crewsim/internal/config"
	"github.com/talgya/crewsim/internal/engine"
	"github.com/talgya/crewsim/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "experiment YAML file (defaults built in)")
	dbOverride := flag.String("db", "", "override the experiment's database path")
	printDefault := flag.Bool("print-default", false, "print the default experiment file and exit")
	flag.Parse()

	if *printDefault {
		fmt.Print(config.DefaultExperimentYAML)
		return
	}

	exp := config.Default()
	if *configPath != "" {
		var err error
		exp, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *dbOverride != "" {
		exp.Database = *dbOverride
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(exp.Logging.Level),
	}))
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	if err := ensureDatabaseDir(exp.Database); err != nil {
		slog.Error("failed to create database directory", "path", exp.Database, "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(exp.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", exp.Database)

	// ── Signals ───────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Runs ──────────────────────────────────────────────────────────
	runs := exp.Runs()
	slog.Info("experiment loaded",
		"name", exp.Name,
		"runs", len(runs),
		"replicates", exp.Replicates,
		"ticks", humanize.Comma(int64(exp.Ticks)),
	)

	started := time.Now()
	var summaries []summary
	for _, r := range runs {
		for rep := 0; rep < exp.Replicates; rep++ {
			sum, err := runOne(ctx, db, exp, r, rep)
			if err != nil {
				slog.Error("run failed", "label", r.Label, "replicate", rep, "error", err)
				os.Exit(1)
			}
			summaries = append(summaries, sum)
			if ctx.Err() != nil {
				slog.Warn("interrupted, stopping experiment")
				printSummary(summaries, started)
				return
			}
		}
	}

	printSummary(summaries, started)
}

type summary struct {
	RunID      string
	Label      string
	Replicate  int
	Population int
	Final      engine.Census
	Peak       int
	PeakTick   uint64
}

func runOne(ctx context.Context, db *persistence.DB, exp config.Experiment, r config.Run, rep int) (summary, error) {
	seed := exp.Seed + int64(rep)
	sim, err := engine.New(r.Params, seed)
	if err != nil {
		return summary{}, err
	}

	runID, err := db.CreateRun(exp.Name, r.Label, rep, seed, r.Params)
	if err != nil {
		return summary{}, err
	}

	sum := summary{RunID: runID, Label: r.Label, Replicate: rep, Population: r.Params.Population}
	series := make([]engine.Census, 0, exp.Ticks)

	runner := engine.NewRunner(sim)
	runner.OnTick = func(tick uint64) {
		c := sim.Census()
		c.Tick = tick
		series = append(series, c)
		if n := c.Infected(); n > sum.Peak {
			sum.Peak, sum.PeakTick = n, tick
		}
	}

	slog.Info("run started", "run", runID, "label", r.Label, "replicate", rep, "seed", seed)
	if _, err := runner.Run(ctx, exp.Ticks); err != nil && ctx.Err() == nil {
		return sum, err
	}

	if err := db.SaveResults(runID, sim, series); err != nil {
		return sum, err
	}
	sum.Final = sim.Census()
	return sum, nil
}

func printSummary(summaries []summary, started time.Time) {
	fmt.Printf("\n%d runs finished %s.\n", len(summaries), humanize.RelTime(started, time.Now(), "ago", "from now"))
	for _, s := range summaries {
		fmt.Printf("  %-16s #%d  deaths %s/%s  peak infected %s (%s)  infections %s  run %s\n",
			s.Label, s.Replicate,
			humanize.Comma(int64(s.Final.Deaths)), humanize.Comma(int64(s.Population)),
			humanize.Comma(int64(s.Peak)), humanize.Ordinal(int(s.PeakTick)+1)+" tick",
			humanize.Comma(int64(s.Final.Infections)),
			s.RunID,
		)
	}
}

// ensureDatabaseDir creates the directory holding the database file.
func ensureDatabaseDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
