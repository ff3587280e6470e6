package parser

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/OCAP2/missionscore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)
}

func TestSplitField(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"simple", "T:5", "T", "5", true},
		{"negative value", "AID:-1", "AID", "-1", true},
		{"no colon", "badtoken", "", "", false},
		{"double colon", "::", "", "", false},
		{"two colons", "POS:1:2", "", "", false},
		{"empty key", ":5", "", "", false},
		{"empty value", "SKIN:", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := splitField(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestTokenize_Leniency(t *testing.T) {
	p := newTestParser()

	events, err := p.Tokenize("T:5 AType:KILL :: badtoken")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, map[string]string{"T": "5", "AType": "KILL"}, events[0].Fields)
	assert.Equal(t, 1, events[0].Line)
	assert.Equal(t, "T:5 AType:KILL :: badtoken", events[0].Raw)
}

func TestTokenize_SkipsLinesWithoutFields(t *testing.T) {
	p := newTestParser()

	text := "\n   \ngarbage line here\n:: ::\nT:1 AType:0\n"
	events, err := p.Tokenize(text)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 5, events[0].Line)
}

func TestTokenize_CRLF(t *testing.T) {
	p := newTestParser()

	events, err := p.Tokenize("T:1 AType:0\r\nT:2 AType:7\r\n")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "0", events[0].Fields["AType"])
	assert.Equal(t, "7", events[1].Fields["AType"])
}

func TestTokenize_SortsStableByTime(t *testing.T) {
	p := newTestParser()

	text := "T:30 AType:3 AID:1 TID:2\n" +
		"T:10 AType:1 AID:5 TID:6 N:first\n" +
		"T:20 AType:1 AID:5 TID:6\n" +
		"T:10 AType:1 AID:7 TID:8 N:second\n"

	events, err := p.Tokenize(text)
	require.NoError(t, err)
	require.Len(t, events, 4)

	var times []string
	for _, e := range events {
		times = append(times, e.Fields["T"])
	}
	assert.Equal(t, []string{"10", "10", "20", "30"}, times)
	assert.Equal(t, "first", events[0].Fields["N"])
	assert.Equal(t, "second", events[1].Fields["N"])
}

func TestTokenize_OrderInvariance(t *testing.T) {
	p := newTestParser()

	fragA := "T:1 AType:12 ID:10 PID:-1 COUNTRY:101 TYPE:Yak-1\nT:3 AType:3 AID:10 TID:20\n"
	fragB := "T:2 AType:12 ID:20 PID:-1 COUNTRY:201 TYPE:Bf-109\n"

	ab, err := p.Tokenize(fragA + fragB)
	require.NoError(t, err)
	ba, err := p.Tokenize(fragB + fragA)
	require.NoError(t, err)

	require.Len(t, ab, 3)
	require.Len(t, ba, 3)
	for i := range ab {
		assert.Equal(t, ab[i].Fields, ba[i].Fields)
	}
}

func TestTokenize_MissingTime(t *testing.T) {
	p := newTestParser()

	_, err := p.Tokenize("T:1 AType:0\nAType:3 AID:1 TID:2\n")
	require.Error(t, err)

	var malformed *core.MalformedEventError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "T", malformed.Field)
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, "AType:3 AID:1 TID:2", malformed.Raw)
}

func TestTokenize_NonIntegerTime(t *testing.T) {
	p := newTestParser()

	_, err := p.Tokenize("T:soon AType:0\n")

	var malformed *core.MalformedEventError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not an integer", malformed.Reason)
}

func TestTokenize_Empty(t *testing.T) {
	p := newTestParser()

	events, err := p.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, events)
}
