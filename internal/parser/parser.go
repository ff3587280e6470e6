package parser

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/OCAP2/missionscore/pkg/core"
)

// Parser turns raw mission log text into ordered events.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// splitField splits a key:value token. Tokens with no colon, more than one
// colon, or an empty side are not fields.
func splitField(token string) (key, value string, ok bool) {
	if strings.Count(token, ":") != 1 {
		return "", "", false
	}
	key, value, _ = strings.Cut(token, ":")
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

type timedEvent struct {
	t     int
	event core.Event
}

// Tokenize splits text into lines and each line into key:value fields.
// Malformed tokens are dropped and lines without any field produce no
// event. The result is stable-sorted by T; an event without an integer T
// is a *core.MalformedEventError.
func (p *Parser) Tokenize(text string) ([]core.Event, error) {
	var timed []timedEvent
	dropped := 0

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		fields := map[string]string{}
		for _, token := range strings.Fields(line) {
			key, value, ok := splitField(token)
			if !ok {
				dropped++
				continue
			}
			fields[key] = value
		}
		if len(fields) == 0 {
			continue
		}

		event := core.Event{Line: i + 1, Raw: line, Fields: fields}
		t, err := event.Time()
		if err != nil {
			return nil, err
		}
		timed = append(timed, timedEvent{t: t, event: event})
	}

	slices.SortStableFunc(timed, func(a, b timedEvent) int {
		return cmp.Compare(a.t, b.t)
	})

	events := make([]core.Event, len(timed))
	for i, te := range timed {
		events[i] = te.event
	}

	p.logger.Debug("Tokenized mission log",
		"events", len(events),
		"droppedTokens", dropped)

	return events, nil
}
