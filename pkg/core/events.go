// pkg/core/events.go
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType is the AType code of a mission log record.
type EventType int

const (
	MissionStart EventType = iota
	Hit
	Damage
	Kill
	PlayerMissionEnd
	TakeOff
	Landing
	MissionEnd
	MissionObjective
	AirfieldInfo
	PlayerPlane
	GroupInit
	ObjectSpawned
	InfluenceAreaHeader
	InfluenceAreaBoundary
	LogVersion
	BotUninit
	PosChanged
	BotEjectLeave
	RoundEnd
	Join
	Leave
	Noop
	All
)

var eventTypeNames = [...]string{
	"MISSION_START",
	"HIT",
	"DAMAGE",
	"KILL",
	"PLAYER_MISSION_END",
	"TAKE_OFF",
	"LANDING",
	"MISSION_END",
	"MISSION_OBJECTIVE",
	"AIRFIELD_INFO",
	"PLAYER_PLANE",
	"GROUP_INIT",
	"OBJECT_SPAWNED",
	"INFLUENCE_AREA_HEADER",
	"INFLUENCE_AREA_BOUNDARY",
	"LOG_VERSION",
	"BOT_UNINIT",
	"POS_CHANGED",
	"BOT_EJECT_LEAVE",
	"ROUND_END",
	"JOIN",
	"LEAVE",
	"NOOP",
	"ALL",
}

// Valid reports whether t is one of the 24 known codes.
func (t EventType) Valid() bool {
	return t >= MissionStart && t <= All
}

func (t EventType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ATYPE_%d", int(t))
	}
	return eventTypeNames[t]
}

// Field names shared by all records.
const (
	FieldTime = "T"
	FieldType = "AType"
)

// Event is one tokenized log line. Values stay strings until a consumer
// asks for a typed field.
type Event struct {
	Line   int // 1-based line number in the concatenated input
	Raw    string
	Fields map[string]string
}

// Has reports whether the field is present.
func (e Event) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// String returns a required string field.
func (e Event) String(key string) (string, error) {
	v, ok := e.Fields[key]
	if !ok {
		return "", e.malformed(key, "missing field", nil)
	}
	return v, nil
}

// Int returns a required integer field. Whole-valued floats ("12.0") are
// accepted since some simulator builds write them that way.
func (e Event) Int(key string) (int, error) {
	v, ok := e.Fields[key]
	if !ok {
		return 0, e.malformed(key, "missing field", nil)
	}
	n, err := ParseInt(v)
	if err != nil {
		return 0, e.malformed(key, "not an integer", err)
	}
	return n, nil
}

// Time returns the T field.
func (e Event) Time() (int, error) {
	return e.Int(FieldTime)
}

// Type returns the AType field.
func (e Event) Type() (EventType, error) {
	n, err := e.Int(FieldType)
	if err != nil {
		return 0, err
	}
	return EventType(n), nil
}

func (e Event) malformed(field, reason string, err error) *MalformedEventError {
	return &MalformedEventError{
		Line:   e.Line,
		Raw:    e.Raw,
		Field:  field,
		Reason: reason,
		Err:    err,
	}
}

// ParseInt parses a string that may be an integer ("32") or a whole float ("32.00").
func ParseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("ParseInt: %q is not a whole number", s)
	}
	return int(f), nil
}

// SpawnEvent is an AType 12 (OBJECT_SPAWNED) record.
type SpawnEvent struct {
	Time    int
	ID      EntityID
	Parent  EntityID // PID: the plane a spawned pilot sits in
	Country int
	Type    string
}

// IsBot reports whether the spawned object is AI controlled.
func (s SpawnEvent) IsBot() bool {
	return strings.HasPrefix(s.Type, BotTypePrefix)
}

// BotTypePrefix marks AI pilots in the TYPE field of a spawn record.
const BotTypePrefix = "Bot"

// PlayerPlaneEvent is an AType 10 record.
type PlayerPlaneEvent struct {
	Time   int
	Player EntityID // PID
	Plane  EntityID // PLID
	Name   string
}

// HitEvent is an AType 1 record.
type HitEvent struct {
	Time     int
	Attacker EntityID
	Target   EntityID
}

// KillEvent is an AType 3 record.
type KillEvent struct {
	Time     int
	Attacker EntityID
	Target   EntityID
}
