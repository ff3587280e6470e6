// internal/storage/storage.go
package storage

import "github.com/OCAP2/missionscore/pkg/core"

// Backend is the interface all kill ledger implementations must satisfy.
// Records are append-only: nothing recorded is ever changed or removed
// for the lifetime of a mission.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Mission management
	StartMission(name string) error
	EndMission() error

	// Event journal
	RecordEvent(t core.EventType, e core.Event) error

	// Attribution recording.
	// RecordKill credits attacker with victim and appends to both records.
	// RecordDeath appends to the death record only (an unresolved death).
	RecordKill(attacker, victim core.EntityID) error
	RecordDeath(victim, attacker core.EntityID) error

	// Read back
	Kills() (core.KillRecord, error)
	Deaths() (core.DeathRecord, error)
	EventCounts() (map[core.EventType]int, error)
}
