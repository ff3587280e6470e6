// Package attribution decides who is credited with each kill.
//
// A kill that reports an attacker is taken at face value. A kill with
// AID -1 is resolved by looking back for an earlier hit event. Instead of
// re-scanning the event sequence for every such kill, the engine keeps an
// index of hits as they are observed, which preserves "first matching
// prior hit" semantics.
package attribution

import (
	"fmt"

	"github.com/OCAP2/missionscore/pkg/core"
)

// MatchMode selects which prior hit resolves a kill without attacker.
type MatchMode string

const (
	// MatchLiteral takes the first prior hit event regardless of its
	// target. This mirrors how the scoring has always behaved.
	MatchLiteral MatchMode = "literal"
	// MatchVictim takes the first prior hit event whose target is the
	// kill's victim.
	MatchVictim MatchMode = "victim"
)

// ParseMatchMode parses a configured match mode. Empty means literal.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchLiteral:
		return MatchLiteral, nil
	case MatchVictim:
		return MatchVictim, nil
	default:
		return "", fmt.Errorf("unknown attribution match mode %q (want %q or %q)", s, MatchLiteral, MatchVictim)
	}
}

// Outcome classifies an attributed kill.
type Outcome int

const (
	// Credited kills go to both the kill and the death record.
	Credited Outcome = iota
	// Unresolved kills count as a loss for the victim only.
	Unresolved
	// Excluded kills credit an attacker for an already recognized pilot and
	// are only logged.
	Excluded
)

func (o Outcome) String() string {
	switch o {
	case Credited:
		return "credited"
	case Unresolved:
		return "unresolved"
	case Excluded:
		return "excluded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Attribution is the engine's verdict for one kill event.
type Attribution struct {
	Attacker core.EntityID
	Victim   core.EntityID
	Outcome  Outcome

	// Inferred is set when the attacker came from a prior hit.
	Inferred bool
	// HitIndex is the sequence index of that hit, or -1.
	HitIndex int
}

// Pilots reports whether an ID belongs to a recognized pilot.
type Pilots interface {
	IsPilot(id core.EntityID) bool
	IsBotPilot(id core.EntityID) bool
}

type hitRef struct {
	index    int
	attacker core.EntityID
}

// Engine attributes kills for one mission run. It is not safe for
// concurrent use.
type Engine struct {
	mode   MatchMode
	pilots Pilots

	first    *hitRef
	byVictim map[core.EntityID]hitRef
}

// NewEngine creates an engine that checks exclusions against pilots.
func NewEngine(mode MatchMode, pilots Pilots) *Engine {
	if mode == "" {
		mode = MatchLiteral
	}
	return &Engine{
		mode:     mode,
		pilots:   pilots,
		byVictim: make(map[core.EntityID]hitRef),
	}
}

// Mode returns the engine's match mode.
func (e *Engine) Mode() MatchMode {
	return e.mode
}

// ObserveHit indexes a hit event found at position index of the sorted
// sequence. Only the first hit overall and the first hit per target are
// kept; later hits never win a lookback.
func (e *Engine) ObserveHit(index int, hit core.HitEvent) {
	ref := hitRef{index: index, attacker: hit.Attacker}
	if e.first == nil {
		e.first = &ref
	}
	if _, ok := e.byVictim[hit.Target]; !ok {
		e.byVictim[hit.Target] = ref
	}
}

// lookback finds the hit that resolves a kill at position index. A hit
// only counts if it strictly precedes the kill.
func (e *Engine) lookback(index int, victim core.EntityID) (hitRef, bool) {
	var (
		ref hitRef
		ok  bool
	)
	switch e.mode {
	case MatchVictim:
		ref, ok = e.byVictim[victim]
	default:
		if e.first != nil {
			ref, ok = *e.first, true
		}
	}
	if !ok || ref.index >= index {
		return hitRef{}, false
	}
	return ref, true
}

// Attribute decides the attacker and outcome of the kill at position
// index. Resolution status is checked before exclusion: a kill nobody is
// credited with always counts as a loss, and only credited kills on a
// recognized pilot are excluded.
func (e *Engine) Attribute(index int, kill core.KillEvent) Attribution {
	a := Attribution{
		Attacker: kill.Attacker,
		Victim:   kill.Target,
		HitIndex: -1,
	}

	if a.Attacker == core.NoAttacker {
		if ref, ok := e.lookback(index, a.Victim); ok {
			a.Attacker = ref.attacker
			a.Inferred = true
			a.HitIndex = ref.index
		}
	}

	switch {
	case a.Attacker == core.NoAttacker:
		a.Outcome = Unresolved
	case e.pilots.IsPilot(a.Victim) || e.pilots.IsBotPilot(a.Victim):
		a.Outcome = Excluded
	default:
		a.Outcome = Credited
	}
	return a
}
