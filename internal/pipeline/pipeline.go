// Package pipeline scores one mission: tokenize, dispatch in time order,
// aggregate. Every Run owns all of its state, so runs never influence
// each other.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/OCAP2/missionscore/internal/attribution"
	"github.com/OCAP2/missionscore/internal/cache"
	"github.com/OCAP2/missionscore/internal/dispatcher"
	"github.com/OCAP2/missionscore/internal/handlers"
	"github.com/OCAP2/missionscore/internal/mission"
	"github.com/OCAP2/missionscore/internal/parser"
	"github.com/OCAP2/missionscore/internal/score"
	"github.com/OCAP2/missionscore/internal/storage"
	"github.com/OCAP2/missionscore/internal/storage/memory"
	"github.com/OCAP2/missionscore/pkg/core"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BackendFactory creates a fresh ledger for one run.
type BackendFactory func(runID string) (storage.Backend, error)

// MemoryBackend is the default BackendFactory.
func MemoryBackend(string) (storage.Backend, error) {
	return memory.New(), nil
}

// Options configures a Runner.
type Options struct {
	MatchMode  attribution.MatchMode
	NewBackend BackendFactory
	Logger     *slog.Logger
	// Mission, if set, is updated with the mission and run ID while a run
	// is in progress.
	Mission *mission.Context
}

// Result is everything a report needs about one scored mission.
type Result struct {
	Mission     string
	RunID       string
	Events      int
	Kills       core.KillRecord
	Deaths      core.DeathRecord
	Tally       score.Tally
	Feed        []handlers.FeedEntry
	EventCounts map[core.EventType]int
	Duration    time.Duration
}

// Runner runs the scoring pipeline.
type Runner struct {
	opts Options

	// OTEL metrics
	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates a Runner. Missing options fall back to literal matching,
// an in-memory ledger and the default logger.
func New(opts Options) (*Runner, error) {
	if opts.MatchMode == "" {
		opts.MatchMode = attribution.MatchLiteral
	}
	if opts.NewBackend == nil {
		opts.NewBackend = MemoryBackend
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := &Runner{opts: opts}
	m := meter()

	var err error

	r.runs, err = m.Int64Counter(
		"pipeline.runs",
		metric.WithDescription("Mission scoring runs by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	r.duration, err = m.Float64Histogram(
		"pipeline.run.duration",
		metric.WithDescription("Mission scoring run time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return r, nil
}

// Run scores the concatenated log text of one mission.
func (r *Runner) Run(name, text string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	if r.opts.Mission != nil {
		r.opts.Mission.SetMission(name, runID)
		defer r.opts.Mission.Clear()
	}

	res, err := r.run(name, runID, text)

	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	r.runs.Add(context.Background(), 1, attrs)
	r.duration.Record(context.Background(), float64(time.Since(start).Microseconds())/1000, attrs)

	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (r *Runner) run(name, runID, text string) (*Result, error) {
	logger := r.opts.Logger

	p := parser.NewParser(logger)
	events, err := p.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("error tokenizing mission log: %w", err)
	}

	backend, err := r.opts.NewBackend(runID)
	if err != nil {
		return nil, fmt.Errorf("error creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("error initializing storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("Failed to close storage backend", "error", err)
		}
	}()
	if err := backend.StartMission(name); err != nil {
		return nil, fmt.Errorf("error starting mission: %w", err)
	}

	entities := cache.NewEntityCache()
	svc := handlers.NewService(handlers.Dependencies{
		Parser:      p,
		EntityCache: entities,
		Engine:      attribution.NewEngine(r.opts.MatchMode, entities),
		Backend:     backend,
		Logger:      logger,
	})

	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, fmt.Errorf("error creating dispatcher: %w", err)
	}
	svc.RegisterHandlers(d)

	for _, e := range events {
		t, err := e.Type()
		if err != nil {
			return nil, err
		}
		logger.Debug("Event", "line", e.Line, "handled", d.HasHandler(t), "fields", e.Fields)

		if err := backend.RecordEvent(t, e); err != nil {
			return nil, fmt.Errorf("error journaling event at line %d: %w", e.Line, err)
		}
	}

	if err := d.DispatchAll(events); err != nil {
		return nil, err
	}

	if err := backend.EndMission(); err != nil {
		return nil, fmt.Errorf("error ending mission: %w", err)
	}

	kills, err := backend.Kills()
	if err != nil {
		return nil, err
	}
	deaths, err := backend.Deaths()
	if err != nil {
		return nil, err
	}
	counts, err := backend.EventCounts()
	if err != nil {
		return nil, err
	}

	tally, err := score.Aggregate(kills, deaths, entities.GetCountry)
	if err != nil {
		return nil, fmt.Errorf("error aggregating scores: %w", err)
	}

	logger.Info("Mission scored",
		"events", len(events),
		"kills", kills.Pairs(),
		"deaths", deaths.Pairs(),
		"matchMode", string(r.opts.MatchMode))

	return &Result{
		Mission:     name,
		RunID:       runID,
		Events:      len(events),
		Kills:       kills,
		Deaths:      deaths,
		Tally:       tally,
		Feed:        svc.Feed(),
		EventCounts: counts,
	}, nil
}
