// internal/storage/memory/memory.go
package memory

import (
	"github.com/OCAP2/missionscore/pkg/core"
)

type attribution struct {
	attacker core.EntityID
	victim   core.EntityID
	credited bool
}

// Backend keeps the mission ledger in memory.
type Backend struct {
	mission string

	attributions []attribution
	eventCounts  map[core.EventType]int
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{
		eventCounts: make(map[core.EventType]int),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartMission begins recording a new mission
func (b *Backend) StartMission(name string) error {
	b.mission = name
	b.attributions = nil
	b.eventCounts = make(map[core.EventType]int)
	return nil
}

// EndMission finalizes the mission
func (b *Backend) EndMission() error {
	return nil
}

// RecordEvent counts an event by type
func (b *Backend) RecordEvent(t core.EventType, e core.Event) error {
	b.eventCounts[t]++
	return nil
}

// RecordKill records a credited kill
func (b *Backend) RecordKill(attacker, victim core.EntityID) error {
	b.attributions = append(b.attributions, attribution{attacker: attacker, victim: victim, credited: true})
	return nil
}

// RecordDeath records a death with no credited kill
func (b *Backend) RecordDeath(victim, attacker core.EntityID) error {
	b.attributions = append(b.attributions, attribution{attacker: attacker, victim: victim})
	return nil
}

// Kills builds the kill record from the ledger
func (b *Backend) Kills() (core.KillRecord, error) {
	kills := core.KillRecord{}
	for _, a := range b.attributions {
		if a.credited {
			kills[a.attacker] = append(kills[a.attacker], a.victim)
		}
	}
	return kills, nil
}

// Deaths builds the death record from the ledger
func (b *Backend) Deaths() (core.DeathRecord, error) {
	deaths := core.DeathRecord{}
	for _, a := range b.attributions {
		deaths[a.victim] = append(deaths[a.victim], a.attacker)
	}
	return deaths, nil
}

// EventCounts returns a copy of the per-type event counts
func (b *Backend) EventCounts() (map[core.EventType]int, error) {
	counts := make(map[core.EventType]int, len(b.eventCounts))
	for t, n := range b.eventCounts {
		counts[t] = n
	}
	return counts, nil
}
