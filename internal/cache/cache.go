package cache

import (
	"strconv"

	"github.com/OCAP2/missionscore/pkg/core"
)

type set map[core.EntityID]struct{}

func (s set) has(id core.EntityID) bool {
	_, ok := s[id]
	return ok
}

// EntityCache resolves transient simulation IDs to the planes, players
// and countries seen so far in a mission. It is owned by a single
// pipeline run and is not safe for concurrent use.
type EntityCache struct {
	Planes    map[core.EntityID]core.PlaneAssignment // plane ID -> assignment
	Countries map[core.EntityID]int                  // object ID -> country code
	Pilots    set                                    // PID of every PLAYER_PLANE
	BotPilots set
	BotPlanes set
}

func NewEntityCache() *EntityCache {
	c := &EntityCache{}
	c.Reset()
	return c
}

func (c *EntityCache) Reset() {
	c.Planes = make(map[core.EntityID]core.PlaneAssignment)
	c.Countries = make(map[core.EntityID]int)
	c.Pilots = make(set)
	c.BotPilots = make(set)
	c.BotPlanes = make(set)
}

// ObserveSpawn records the country of a spawned object and, for AI
// pilots, flags the pilot and the plane it spawned into.
func (c *EntityCache) ObserveSpawn(s core.SpawnEvent) {
	c.Countries[s.ID] = s.Country
	if s.IsBot() {
		c.BotPilots[s.ID] = struct{}{}
		c.BotPlanes[s.Parent] = struct{}{}
	}
}

// AddPlane records a plane assignment. Assignments are immutable: it
// returns false and keeps the existing entry if the plane is already known.
func (c *EntityCache) AddPlane(a core.PlaneAssignment) bool {
	c.Pilots[a.Player] = struct{}{}
	if _, ok := c.Planes[a.Plane]; ok {
		return false
	}
	c.Planes[a.Plane] = a
	return true
}

func (c *EntityCache) GetPlane(id core.EntityID) (core.PlaneAssignment, bool) {
	a, ok := c.Planes[id]
	return a, ok
}

func (c *EntityCache) GetCountry(id core.EntityID) (int, bool) {
	country, ok := c.Countries[id]
	return country, ok
}

func (c *EntityCache) IsPilot(id core.EntityID) bool {
	return c.Pilots.has(id)
}

func (c *EntityCache) IsBotPilot(id core.EntityID) bool {
	return c.BotPilots.has(id)
}

func (c *EntityCache) IsBotPlane(id core.EntityID) bool {
	return c.BotPlanes.has(id)
}

// DisplayName returns the player name flying a known plane, or the raw ID.
func (c *EntityCache) DisplayName(id core.EntityID) string {
	if a, ok := c.Planes[id]; ok {
		return a.Name
	}
	return strconv.Itoa(int(id))
}
