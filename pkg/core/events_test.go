package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"integer", "32", 32, false},
		{"zero", "0", 0, false},
		{"negative integer", "-1", -1, false},
		{"float with decimals", "32.00", 32, false},
		{"negative float", "-1.00", -1, false},
		{"fractional rejects", "10.99", 0, true},
		{"empty string", "", 0, true},
		{"non-numeric", "KILL", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "HIT", Hit.String())
	assert.Equal(t, "KILL", Kill.String())
	assert.Equal(t, "PLAYER_PLANE", PlayerPlane.String())
	assert.Equal(t, "OBJECT_SPAWNED", ObjectSpawned.String())
	assert.Equal(t, "ALL", All.String())
	assert.Equal(t, "ATYPE_42", EventType(42).String())
}

func TestEventType_Codes(t *testing.T) {
	assert.Equal(t, EventType(1), Hit)
	assert.Equal(t, EventType(3), Kill)
	assert.Equal(t, EventType(10), PlayerPlane)
	assert.Equal(t, EventType(12), ObjectSpawned)
	assert.Equal(t, EventType(23), All)
	assert.True(t, Noop.Valid())
	assert.False(t, EventType(-1).Valid())
	assert.False(t, EventType(24).Valid())
}

func TestEvent_Type(t *testing.T) {
	e := Event{Line: 3, Raw: "T:5 AType:KILL", Fields: map[string]string{"T": "5", "AType": "KILL"}}

	_, err := e.Type()

	var malformed *MalformedEventError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, FieldType, malformed.Field)
	assert.Equal(t, 3, malformed.Line)
	assert.Contains(t, err.Error(), `"T:5 AType:KILL"`)
	assert.Error(t, errors.Unwrap(err))
}

func TestEvent_Accessors(t *testing.T) {
	e := Event{Fields: map[string]string{"T": "5", "AType": "3", "NAME": "Ace"}}

	typ, err := e.Type()
	require.NoError(t, err)
	assert.Equal(t, Kill, typ)

	name, err := e.String("NAME")
	require.NoError(t, err)
	assert.Equal(t, "Ace", name)

	assert.True(t, e.Has("T"))
	assert.False(t, e.Has("AID"))

	_, err = e.String("TYPE")
	assert.Error(t, err)
}

func TestCountry(t *testing.T) {
	assert.Equal(t, "USSR", CountryDisplayName(101))
	assert.Equal(t, "Germany", CountryDisplayName(201))
	assert.Equal(t, "Country 999", CountryDisplayName(999))
	assert.Equal(t, Allies, FactionOf(103))
	assert.Equal(t, Axis, FactionOf(201))
	assert.Equal(t, UnknownFaction, FactionOf(999))
}

func TestUnresolvedCountryError(t *testing.T) {
	err := &UnresolvedCountryError{Entity: 42, Role: "attacker"}
	assert.Equal(t, "no country recorded for attacker 42", err.Error())
}
