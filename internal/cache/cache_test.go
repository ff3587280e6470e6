package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OCAP2/missionscore/pkg/core"
)

func TestEntityCache_NewEntityCache(t *testing.T) {
	cache := NewEntityCache()

	require.NotNil(t, cache)
	assert.NotNil(t, cache.Planes)
	assert.NotNil(t, cache.Countries)
	assert.Len(t, cache.Planes, 0)
	assert.Len(t, cache.Countries, 0)
}

func TestEntityCache_ObserveSpawn(t *testing.T) {
	cache := NewEntityCache()

	cache.ObserveSpawn(core.SpawnEvent{ID: 10, Parent: -1, Country: 101, Type: "Yak-1"})

	country, ok := cache.GetCountry(10)
	require.True(t, ok, "expected to find country for object 10")
	assert.Equal(t, 101, country)
	assert.False(t, cache.IsBotPilot(10))
	assert.False(t, cache.IsBotPlane(-1))
}

func TestEntityCache_ObserveSpawn_Bot(t *testing.T) {
	cache := NewEntityCache()

	cache.ObserveSpawn(core.SpawnEvent{ID: 11, Parent: 10, Country: 201, Type: "BotPilot_Bf109"})

	assert.True(t, cache.IsBotPilot(11))
	assert.True(t, cache.IsBotPlane(10))
	assert.False(t, cache.IsBotPilot(10), "plane and pilot namespaces are tracked separately")

	country, ok := cache.GetCountry(11)
	require.True(t, ok)
	assert.Equal(t, 201, country)
}

func TestEntityCache_GetCountry_NotFound(t *testing.T) {
	cache := NewEntityCache()

	_, ok := cache.GetCountry(999)
	assert.False(t, ok, "expected not to find country for object 999")
}

func TestEntityCache_AddPlane(t *testing.T) {
	cache := NewEntityCache()

	added := cache.AddPlane(core.PlaneAssignment{Plane: 10, Player: 11, Name: "Ace"})
	require.True(t, added)

	got, ok := cache.GetPlane(10)
	require.True(t, ok, "expected to find plane 10")
	assert.Equal(t, core.EntityID(11), got.Player)
	assert.Equal(t, "Ace", got.Name)
	assert.True(t, cache.IsPilot(11))
	assert.False(t, cache.IsPilot(10))
}

func TestEntityCache_AddPlane_Immutable(t *testing.T) {
	cache := NewEntityCache()

	cache.AddPlane(core.PlaneAssignment{Plane: 10, Player: 11, Name: "Ace"})
	added := cache.AddPlane(core.PlaneAssignment{Plane: 10, Player: 12, Name: "Rookie"})

	assert.False(t, added)
	got, _ := cache.GetPlane(10)
	assert.Equal(t, "Ace", got.Name)
	assert.True(t, cache.IsPilot(12), "the second pilot is still a recognized pilot")
}

func TestEntityCache_DisplayName(t *testing.T) {
	cache := NewEntityCache()
	cache.AddPlane(core.PlaneAssignment{Plane: 10, Player: 11, Name: "Ace"})

	assert.Equal(t, "Ace", cache.DisplayName(10))
	assert.Equal(t, "11", cache.DisplayName(11))
	assert.Equal(t, "-1", cache.DisplayName(core.NoAttacker))
}

func TestEntityCache_Reset(t *testing.T) {
	cache := NewEntityCache()

	cache.ObserveSpawn(core.SpawnEvent{ID: 1, Parent: 2, Country: 101, Type: "BotPilot"})
	cache.AddPlane(core.PlaneAssignment{Plane: 2, Player: 1, Name: "Bot"})

	assert.Len(t, cache.Countries, 1)
	assert.Len(t, cache.Planes, 1)

	cache.Reset()

	assert.Len(t, cache.Countries, 0)
	assert.Len(t, cache.Planes, 0)
	assert.False(t, cache.IsBotPilot(1))
	assert.False(t, cache.IsPilot(1))

	cache.ObserveSpawn(core.SpawnEvent{ID: 3, Country: 103, Type: "P-40"})
	_, ok := cache.GetCountry(3)
	assert.True(t, ok, "expected to find country added after reset")
}
