package sqlitestorage

import (
	"strings"
	"testing"

	"github.com/OCAP2/missionscore/internal/storage"
	"github.com/OCAP2/missionscore/internal/storage/memory"
	"github.com/OCAP2/missionscore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	b, err := New(name)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.StartMission("missionReport(2024-05-01_20-00-00)"))
	return b
}

func TestInitClose(t *testing.T) {
	b, err := New("init_close")
	require.NoError(t, err)

	require.NoError(t, b.Init())
	assert.True(t, b.db.Migrator().HasTable(&Attribution{}))
	assert.True(t, b.db.Migrator().HasTable(&JournalEntry{}))
	require.NoError(t, b.Close())
}

func TestRecordKillAndDeath(t *testing.T) {
	b := newTestBackend(t)

	require.NoError(t, b.RecordKill(7, 9))
	require.NoError(t, b.RecordKill(7, 11))
	require.NoError(t, b.RecordDeath(12, core.NoAttacker))
	require.NoError(t, b.RecordKill(8, 9))

	kills, err := b.Kills()
	require.NoError(t, err)
	deaths, err := b.Deaths()
	require.NoError(t, err)

	assert.Equal(t, core.KillRecord{7: {9, 11}, 8: {9}}, kills)
	assert.Equal(t, core.DeathRecord{9: {7, 8}, 12: {core.NoAttacker}}, deaths)
}

func TestMatchesMemoryBackend(t *testing.T) {
	sq := newTestBackend(t)
	mem := memory.New()
	require.NoError(t, mem.StartMission("m"))

	ops := []struct {
		attacker, victim core.EntityID
		credited         bool
	}{
		{5, 6, true},
		{core.NoAttacker, 8, false},
		{5, 9, true},
		{10, 6, true},
	}
	for _, op := range ops {
		for _, b := range []storage.Backend{sq, mem} {
			if op.credited {
				require.NoError(t, b.RecordKill(op.attacker, op.victim))
			} else {
				require.NoError(t, b.RecordDeath(op.victim, op.attacker))
			}
		}
	}

	sqKills, err := sq.Kills()
	require.NoError(t, err)
	memKills, err := mem.Kills()
	require.NoError(t, err)
	assert.Equal(t, memKills, sqKills)

	sqDeaths, err := sq.Deaths()
	require.NoError(t, err)
	memDeaths, err := mem.Deaths()
	require.NoError(t, err)
	assert.Equal(t, memDeaths, sqDeaths)
}

func TestRecordEvent_Journal(t *testing.T) {
	b := newTestBackend(t)

	hit := core.Event{Line: 3, Fields: map[string]string{"T": "1", "AType": "1", "AID": "7", "TID": "9"}}
	require.NoError(t, b.RecordEvent(core.Hit, hit))
	require.NoError(t, b.RecordEvent(core.Hit, hit))
	require.NoError(t, b.RecordEvent(core.Kill, core.Event{Line: 4, Fields: map[string]string{"T": "2", "AType": "3"}}))

	counts, err := b.EventCounts()
	require.NoError(t, err)
	assert.Equal(t, map[core.EventType]int{core.Hit: 2, core.Kill: 1}, counts)

	var entry JournalEntry
	require.NoError(t, b.db.Where("line = ?", 3).First(&entry).Error)
	assert.Equal(t, "7", entry.Fields["AID"])
	assert.Equal(t, int(core.Hit), entry.AType)
}

func TestStartMission_ClearsPreviousRows(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RecordKill(1, 2))

	require.NoError(t, b.StartMission("missionReport(2024-05-01_20-00-00)"))

	kills, err := b.Kills()
	require.NoError(t, err)
	assert.Empty(t, kills)
}
