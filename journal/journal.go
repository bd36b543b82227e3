// Package journal persists finished simulation runs and the events they
// raised to a local SQLite file.
package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/milk9111/stealth/ecs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnknownRun = errors.New("journal: unknown run")

// Run is one play of a level from load to outcome.
type Run struct {
	ID         string `gorm:"primaryKey;size:36"`
	Level      string `gorm:"size:127;index:idx_run_level"`
	Seed       uint64
	StartedAt  time.Time `gorm:"index:idx_run_started"`
	FinishedAt *time.Time
	Outcome    string `gorm:"size:32"`
	Ticks      uint64
	Elapsed    float64
	Events     []EventRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

func (*Run) TableName() string {
	return "runs"
}

// EventRecord is one level event of a run.
type EventRecord struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"size:36;index:idx_event_run"`
	Tick   uint64
	Time   float64
	Type   string `gorm:"size:64"`
	Source string `gorm:"size:127"`
}

func (*EventRecord) TableName() string {
	return "run_events"
}

type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens or creates the journal database at path and migrates it.
func Open(path string, log zerolog.Logger) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Run{}, &EventRecord{}); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}

	log.Info().Str("path", path).Msg("journal opened")
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartRun records a new run and returns it with a fresh id.
func (j *Journal) StartRun(level string, seed uint64) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Level:     level,
		Seed:      seed,
		StartedAt: time.Now().UTC(),
		Outcome:   "playing",
	}
	if err := j.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("journal: start run: %w", err)
	}
	j.log.Debug().Str("run", run.ID).Str("level", level).Msg("run started")
	return run, nil
}

// RecordEvents appends a batch of events to a run.
func (j *Journal) RecordEvents(runID string, events []ecs.Event) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]EventRecord, 0, len(events))
	for _, evt := range events {
		records = append(records, EventRecord{
			RunID:  runID,
			Tick:   evt.Tick,
			Time:   evt.Time,
			Type:   string(evt.Type),
			Source: evt.Source(),
		})
	}
	if err := j.db.Create(&records).Error; err != nil {
		return fmt.Errorf("journal: record events: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (j *Journal) FinishRun(runID, outcome string, ticks uint64, elapsed float64) error {
	now := time.Now().UTC()
	res := j.db.Model(&Run{}).Where("id = ?", runID).Updates(map[string]any{
		"finished_at": now,
		"outcome":     outcome,
		"ticks":       ticks,
		"elapsed":     elapsed,
	})
	if res.Error != nil {
		return fmt.Errorf("journal: finish run: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	j.log.Debug().Str("run", runID).Str("outcome", outcome).Uint64("ticks", ticks).Msg("run finished")
	return nil
}

// Runs lists the most recent runs first. limit <= 0 returns all of them.
func (j *Journal) Runs(limit int) ([]Run, error) {
	var runs []Run
	q := j.db.Order("started_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("journal: list runs: %w", err)
	}
	return runs, nil
}

// Run loads one run with its events in tick order.
func (j *Journal) Run(id string) (*Run, error) {
	var run Run
	err := j.db.Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("tick asc, id asc")
	}).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, id)
	}
	if err != nil {
		return nil, fmt.Errorf("journal: load run: %w", err)
	}
	return &run, nil
}
