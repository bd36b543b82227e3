package main

import (
	"github.com/milk9111/stealth/config"
	"github.com/milk9111/stealth/journal"
	"github.com/milk9111/stealth/level"
	"github.com/milk9111/stealth/telemetry"
	"github.com/rs/zerolog"
)

type result struct {
	RunID   string
	Outcome string
	Ticks   uint64
	Elapsed float64
	Counts  map[string]int64
}

// simulate loads the configured level and steps it to an outcome. j may be
// nil.
func simulate(s config.Settings, log zerolog.Logger, rec *telemetry.Recorder, j *journal.Journal) (result, error) {
	rt, err := level.Load(s.Level, level.Options{Logger: log, Seed: s.Seed})
	if err != nil {
		return result{}, err
	}
	rt.Subscribe(rec.Observe)

	var res result
	if j != nil {
		run, err := j.StartRun(rt.Name, s.Seed)
		if err != nil {
			return result{}, err
		}
		res.RunID = run.ID
	}

	dt := s.DeltaTime()
	for i := 0; (s.MaxTicks <= 0 || i < s.MaxTicks) && rt.State() == level.StatePlaying; i++ {
		events := rt.Tick(dt)
		rec.Tick()
		if j != nil {
			if err := j.RecordEvents(res.RunID, events); err != nil {
				log.Error().Err(err).Msg("failed to record events")
			}
		}
	}

	res.Outcome = rt.State().String()
	if res.Outcome == "playing" {
		res.Outcome = "timeout"
	}
	res.Ticks = rt.World().Tick()
	res.Elapsed = rt.World().Elapsed()
	res.Counts = make(map[string]int64)
	for k, v := range rec.Counts() {
		res.Counts[string(k)] = v
	}

	if j != nil {
		if err := j.FinishRun(res.RunID, res.Outcome, res.Ticks, res.Elapsed); err != nil {
			return res, err
		}
	}
	return res, nil
}
