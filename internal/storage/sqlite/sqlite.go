// Package sqlitestorage implements the storage.Backend interface on a
// private in-memory SQLite database through GORM. Nothing is written to
// disk; the database lives as long as the backend.
package sqlitestorage

import (
	"fmt"

	"github.com/OCAP2/missionscore/internal/database"
	"github.com/OCAP2/missionscore/pkg/core"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attribution is one ledger row. Rows are only ever inserted.
type Attribution struct {
	ID       uint   `gorm:"primaryKey"`
	Mission  string `gorm:"size:255;index:idx_attribution_mission"`
	Attacker int
	Victim   int `gorm:"index:idx_attribution_victim"`
	Credited bool
}

func (*Attribution) TableName() string {
	return "attributions"
}

// JournalEntry keeps every dispatched event with its raw fields.
type JournalEntry struct {
	ID      uint   `gorm:"primaryKey"`
	Mission string `gorm:"size:255;index:idx_journal_mission"`
	Line    int
	AType   int `gorm:"index:idx_journal_atype"`
	Fields  datatypes.JSONMap
}

func (*JournalEntry) TableName() string {
	return "event_journal"
}

// DatabaseModels lists the tables managed by this backend.
var DatabaseModels = []any{
	&Attribution{},
	&JournalEntry{},
}

// Backend stores the mission ledger in SQLite.
type Backend struct {
	db      *gorm.DB
	mission string
}

// New creates a new SQLite storage backend. name must be unique per run.
func New(name string) (*Backend, error) {
	db, err := database.GetSqliteDB(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	return &Backend{db: db}, nil
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the database, which drops it.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// StartMission begins recording a new mission, clearing any rows a
// previous run under the same name left behind.
func (b *Backend) StartMission(name string) error {
	b.mission = name
	if err := b.db.Where("mission = ?", name).Delete(&Attribution{}).Error; err != nil {
		return fmt.Errorf("error clearing attributions: %w", err)
	}
	if err := b.db.Where("mission = ?", name).Delete(&JournalEntry{}).Error; err != nil {
		return fmt.Errorf("error clearing event journal: %w", err)
	}
	return nil
}

// EndMission finalizes the mission
func (b *Backend) EndMission() error {
	return nil
}

// RecordEvent appends the event to the journal.
func (b *Backend) RecordEvent(t core.EventType, e core.Event) error {
	fields := make(datatypes.JSONMap, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	entry := JournalEntry{
		Mission: b.mission,
		Line:    e.Line,
		AType:   int(t),
		Fields:  fields,
	}
	if err := b.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("error journaling event: %w", err)
	}
	return nil
}

// RecordKill records a credited kill.
func (b *Backend) RecordKill(attacker, victim core.EntityID) error {
	return b.insert(attacker, victim, true)
}

// RecordDeath records a death with no credited kill.
func (b *Backend) RecordDeath(victim, attacker core.EntityID) error {
	return b.insert(attacker, victim, false)
}

func (b *Backend) insert(attacker, victim core.EntityID, credited bool) error {
	row := Attribution{
		Mission:  b.mission,
		Attacker: int(attacker),
		Victim:   int(victim),
		Credited: credited,
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("error recording attribution: %w", err)
	}
	return nil
}

func (b *Backend) attributions(creditedOnly bool) ([]Attribution, error) {
	var rows []Attribution
	q := b.db.Model(&Attribution{}).Where("mission = ?", b.mission)
	if creditedOnly {
		q = q.Where("credited = ?", true)
	}
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error getting attributions: %w", err)
	}
	return rows, nil
}

// Kills rebuilds the kill record in insertion order.
func (b *Backend) Kills() (core.KillRecord, error) {
	rows, err := b.attributions(true)
	if err != nil {
		return nil, err
	}
	kills := core.KillRecord{}
	for _, r := range rows {
		a := core.EntityID(r.Attacker)
		kills[a] = append(kills[a], core.EntityID(r.Victim))
	}
	return kills, nil
}

// Deaths rebuilds the death record in insertion order.
func (b *Backend) Deaths() (core.DeathRecord, error) {
	rows, err := b.attributions(false)
	if err != nil {
		return nil, err
	}
	deaths := core.DeathRecord{}
	for _, r := range rows {
		v := core.EntityID(r.Victim)
		deaths[v] = append(deaths[v], core.EntityID(r.Attacker))
	}
	return deaths, nil
}

// EventCounts groups the journal by AType.
func (b *Backend) EventCounts() (map[core.EventType]int, error) {
	var rows []struct {
		AType int
		Count int
	}
	err := b.db.Model(&JournalEntry{}).
		Select("a_type, COUNT(*) AS count").
		Where("mission = ?", b.mission).
		Group("a_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error counting events: %w", err)
	}

	counts := make(map[core.EventType]int, len(rows))
	for _, r := range rows {
		counts[core.EventType(r.AType)] = r.Count
	}
	return counts, nil
}
