package handlers

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/missionscore/internal/attribution"
	"github.com/OCAP2/missionscore/internal/cache"
	"github.com/OCAP2/missionscore/internal/dispatcher"
	"github.com/OCAP2/missionscore/internal/parser"
	"github.com/OCAP2/missionscore/internal/storage"
	"github.com/OCAP2/missionscore/pkg/core"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Parser      *parser.Parser
	EntityCache *cache.EntityCache
	Engine      *attribution.Engine
	Backend     storage.Backend
	Logger      *slog.Logger
}

// FeedEntry is one line of the kill feed.
type FeedEntry struct {
	Time      int
	Attacker  string
	Victim    string
	Outcome   attribution.Outcome
	// BotVictim is set when the victim is a plane flown by a bot.
	BotVictim bool
}

func (f FeedEntry) String() string {
	return fmt.Sprintf("%s killed %s", f.Attacker, f.Victim)
}

// Service provides handler methods for the event types the scorer
// interprets. One Service serves one mission run.
type Service struct {
	deps Dependencies
	feed []FeedEntry
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// RegisterHandlers registers the event handlers with the dispatcher.
// Spawns and plane assignments feed the entity cache, hits feed the
// attribution index and kills are attributed and recorded.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(core.ObjectSpawned, s.handleObjectSpawned, dispatcher.Logged())
	d.Register(core.PlayerPlane, s.handlePlayerPlane, dispatcher.Logged())
	d.Register(core.Hit, s.handleHit, dispatcher.Logged())
	d.Register(core.Kill, s.handleKill, dispatcher.Logged())
}

// Feed returns the kill feed collected so far.
func (s *Service) Feed() []FeedEntry {
	out := make([]FeedEntry, len(s.feed))
	copy(out, s.feed)
	return out
}

func (s *Service) handleObjectSpawned(_ int, e core.Event) error {
	obj, err := s.deps.Parser.ParseObjectSpawned(e)
	if err != nil {
		return fmt.Errorf("failed to log object spawned: %w", err)
	}

	s.deps.EntityCache.ObserveSpawn(obj)
	return nil
}

func (s *Service) handlePlayerPlane(_ int, e core.Event) error {
	obj, err := s.deps.Parser.ParsePlayerPlane(e)
	if err != nil {
		return fmt.Errorf("failed to log player plane: %w", err)
	}

	added := s.deps.EntityCache.AddPlane(core.PlaneAssignment{
		Plane:  obj.Plane,
		Player: obj.Player,
		Name:   obj.Name,
	})
	if !added {
		existing, _ := s.deps.EntityCache.GetPlane(obj.Plane)
		s.deps.Logger.Warn("Plane already assigned, keeping first assignment",
			"plane", obj.Plane,
			"player", existing.Player,
			"ignoredPlayer", obj.Player)
	}
	return nil
}

func (s *Service) handleHit(index int, e core.Event) error {
	hit, err := s.deps.Parser.ParseHit(e)
	if err != nil {
		return fmt.Errorf("failed to log hit: %w", err)
	}

	s.deps.Engine.ObserveHit(index, hit)
	return nil
}

func (s *Service) handleKill(index int, e core.Event) error {
	kill, err := s.deps.Parser.ParseKill(e)
	if err != nil {
		return fmt.Errorf("failed to log kill: %w", err)
	}

	a := s.deps.Engine.Attribute(index, kill)
	if a.Inferred {
		s.deps.Logger.Debug("Attacker inferred from prior hit",
			"attacker", a.Attacker,
			"victim", a.Victim,
			"hitIndex", a.HitIndex)
	}

	switch a.Outcome {
	case attribution.Credited:
		if err := s.deps.Backend.RecordKill(a.Attacker, a.Victim); err != nil {
			return fmt.Errorf("failed to record kill: %w", err)
		}
	case attribution.Unresolved:
		s.deps.Logger.Info(fmt.Sprintf("%d died to no one", a.Victim))
		if err := s.deps.Backend.RecordDeath(a.Victim, core.NoAttacker); err != nil {
			return fmt.Errorf("failed to record death: %w", err)
		}
	case attribution.Excluded:
		s.deps.Logger.Info("Ignoring additional pilot kill", "victim", a.Victim)
	}

	entry := FeedEntry{
		Time:      kill.Time,
		Attacker:  s.deps.EntityCache.DisplayName(a.Attacker),
		Victim:    s.deps.EntityCache.DisplayName(a.Victim),
		Outcome:   a.Outcome,
		BotVictim: s.deps.EntityCache.IsBotPlane(a.Victim),
	}
	s.feed = append(s.feed, entry)
	if entry.BotVictim {
		s.deps.Logger.Info(entry.String(), "botPlane", true)
	} else {
		s.deps.Logger.Info(entry.String())
	}
	return nil
}
