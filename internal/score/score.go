// Package score rolls kill and death records up into per-country and
// per-faction totals.
package score

import (
	"maps"
	"slices"

	"github.com/OCAP2/missionscore/pkg/core"
)

// Points per credited kill and per lost airframe.
const (
	KillPoints = 5
	LossPoints = 3
)

// CountryLookup resolves an entity to its country code.
type CountryLookup func(id core.EntityID) (int, bool)

// Tally holds kills and losses per country code. It is always derived
// from the records, never maintained independently.
type Tally struct {
	Kills  map[int]int
	Losses map[int]int
}

// Line is one country's row of the score breakdown.
type Line struct {
	Country int
	Kills   int
	Losses  int
	Score   int
}

// FactionLine is one faction's row of the summary.
type FactionLine struct {
	Faction core.Faction
	Kills   int
	Losses  int
	Score   int
}

// Score applies the scoring formula.
func Score(kills, losses int) int {
	return KillPoints*kills - LossPoints*losses
}

// Aggregate counts one kill for the attacker's country per credited pair
// and one loss for the victim's country per death entry, unresolved ones
// included. An entity without a country is a *core.UnresolvedCountryError.
func Aggregate(kills core.KillRecord, deaths core.DeathRecord, countryOf CountryLookup) (Tally, error) {
	t := Tally{
		Kills:  make(map[int]int),
		Losses: make(map[int]int),
	}

	for _, attacker := range slices.Sorted(maps.Keys(kills)) {
		if attacker == core.NoAttacker {
			continue
		}
		country, ok := countryOf(attacker)
		if !ok {
			return Tally{}, &core.UnresolvedCountryError{Entity: attacker, Role: "attacker"}
		}
		t.Kills[country] += len(kills[attacker])
	}

	for _, victim := range slices.Sorted(maps.Keys(deaths)) {
		country, ok := countryOf(victim)
		if !ok {
			return Tally{}, &core.UnresolvedCountryError{Entity: victim, Role: "victim"}
		}
		t.Losses[country] += len(deaths[victim])
	}

	return t, nil
}

// Countries returns every country with kills or losses, sorted by code.
func (t Tally) Countries() []int {
	set := make(map[int]struct{}, len(t.Kills)+len(t.Losses))
	for c := range t.Kills {
		set[c] = struct{}{}
	}
	for c := range t.Losses {
		set[c] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Lines returns the score breakdown in country order.
func (t Tally) Lines() []Line {
	countries := t.Countries()
	lines := make([]Line, 0, len(countries))
	for _, c := range countries {
		k, l := t.Kills[c], t.Losses[c]
		lines = append(lines, Line{Country: c, Kills: k, Losses: l, Score: Score(k, l)})
	}
	return lines
}

var factionOrder = []core.Faction{core.Allies, core.Axis, core.UnknownFaction}

// Factions sums the country lines by allegiance. Factions without any
// country are left out.
func (t Tally) Factions() []FactionLine {
	sums := make(map[core.Faction]*FactionLine)
	for _, line := range t.Lines() {
		f := core.FactionOf(line.Country)
		fl, ok := sums[f]
		if !ok {
			fl = &FactionLine{Faction: f}
			sums[f] = fl
		}
		fl.Kills += line.Kills
		fl.Losses += line.Losses
	}

	var out []FactionLine
	for _, f := range factionOrder {
		if fl, ok := sums[f]; ok {
			fl.Score = Score(fl.Kills, fl.Losses)
			out = append(out, *fl)
		}
	}
	return out
}
