// pkg/core/mission.go
package core

// EntityID is a simulation object ID. IDs from different namespaces
// (plane, pilot) may collide numerically; the event type decides which
// namespace a field belongs to.
type EntityID int

// NoAttacker is the AID value of a kill nobody was credited with.
const NoAttacker EntityID = -1

// PlaneAssignment binds a plane to the player flying it.
type PlaneAssignment struct {
	Plane  EntityID
	Player EntityID
	Name   string
}

// KillRecord maps an attacker to its victims, in kill order.
type KillRecord map[EntityID][]EntityID

// DeathRecord maps a victim to its attackers. NoAttacker marks an
// unresolved death.
type DeathRecord map[EntityID][]EntityID

// Pairs returns the number of (attacker, victim) pairs held by the record.
func (r KillRecord) Pairs() int {
	n := 0
	for _, victims := range r {
		n += len(victims)
	}
	return n
}

// Pairs returns the number of (victim, attacker) pairs held by the record.
func (r DeathRecord) Pairs() int {
	n := 0
	for _, attackers := range r {
		n += len(attackers)
	}
	return n
}
