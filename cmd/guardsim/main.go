// Command guardsim plays a level headless at a fixed step until the player is
// caught, reaches the exit, or the tick limit runs out.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/milk9111/stealth/config"
	"github.com/milk9111/stealth/journal"
	"github.com/milk9111/stealth/logging"
	"github.com/milk9111/stealth/prefabs"
	"github.com/milk9111/stealth/telemetry"
	"github.com/rs/zerolog"
)

func main() {
	configDir := flag.String("config", ".", "directory holding guardsim.yaml")
	levelName := flag.String("level", "", "level name in prefabs/ (basename, .yaml optional)")
	seed := flag.Uint64("seed", 0, "random seed for guard waits (0 keeps the configured seed)")
	maxTicks := flag.Int("ticks", 0, "tick limit (0 keeps the configured limit)")
	logLevel := flag.String("log", "", "log level override")
	noJournal := flag.Bool("no-journal", false, "do not record the run")
	listRuns := flag.Int("runs", 0, "print the last N journal runs and exit")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *levelName != "" {
		config.Set("level", *levelName)
	}
	if *seed != 0 {
		config.Set("seed", *seed)
	}
	if *maxTicks > 0 {
		config.Set("maxTicks", *maxTicks)
	}
	if *logLevel != "" {
		config.Set("logLevel", *logLevel)
	}
	if *noJournal {
		config.Set("journal.enabled", false)
	}
	settings := config.Current()

	log, err := logging.New(os.Stdout, settings.LogLevel, settings.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	prefabs.Dir = settings.PrefabsDir

	if err := run(settings, log, *listRuns); err != nil {
		log.Error().Err(err).Msg("guardsim failed")
		os.Exit(1)
	}
}

// run returns instead of exiting so the journal is always closed.
func run(settings config.Settings, log zerolog.Logger, listRuns int) error {
	var j *journal.Journal
	if settings.Journal.Enabled || listRuns > 0 {
		var err error
		j, err = journal.Open(settings.Journal.Path, log)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close journal")
			}
		}()
	}

	if listRuns > 0 {
		if err := printRuns(j, listRuns); err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		return nil
	}

	rec, err := telemetry.New(telemetry.Meter())
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	res, err := simulate(settings, log, rec, j)
	if err != nil {
		return fmt.Errorf("run %s: %w", settings.Level, err)
	}

	log.Info().
		Str("level", settings.Level).
		Str("outcome", res.Outcome).
		Uint64("ticks", res.Ticks).
		Float64("elapsed", res.Elapsed).
		Int64("detections", res.Counts["guard_spotted"]+res.Counts["camera_spotted"]).
		Int64("summons", res.Counts["alarm_summoned"]).
		Str("run", res.RunID).
		Msg("run finished")
	return nil
}

func printRuns(j *journal.Journal, n int) error {
	runs, err := j.Runs(n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %-12s seed=%-6d %-9s ticks=%-6d %.2fs\n",
			r.ID, r.Level, r.Seed, r.Outcome, r.Ticks, r.Elapsed)
	}
	return nil
}
