// Package report renders a scored mission as console text.
package report

import (
	"fmt"
	"io"

	"github.com/OCAP2/missionscore/internal/pipeline"
	"github.com/OCAP2/missionscore/internal/score"
	"github.com/OCAP2/missionscore/pkg/core"
)

// ANSI escape codes
const (
	colorHeader = "\033[95m"
	colorGreen  = "\033[92m"
	colorRed    = "\033[91m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

// Report is the data rendered for one mission.
type Report struct {
	Mission string
	Tally   score.Tally
	Feed    []string
}

// FromResult builds a Report from a pipeline result.
func FromResult(res *pipeline.Result) Report {
	feed := make([]string, len(res.Feed))
	for i, f := range res.Feed {
		feed[i] = f.String()
	}
	return Report{Mission: res.Mission, Tally: res.Tally, Feed: feed}
}

// Options controls optional parts of the output.
type Options struct {
	Color    bool
	KillFeed bool
	Title    bool
}

type printer struct {
	w     io.Writer
	color bool
	err   error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + colorReset
}

func (p *printer) header(s string) {
	p.printf("%s\n", p.paint(colorBold+colorHeader, s))
}

func (p *printer) score(s int) string {
	text := fmt.Sprint(s)
	switch {
	case s > 0:
		return p.paint(colorGreen, text)
	case s < 0:
		return p.paint(colorRed, text)
	default:
		return text
	}
}

// Write renders r to w. Victories and losses list only countries with a
// non-zero count; the score breakdown covers every country involved.
func Write(w io.Writer, r Report, opts Options) error {
	p := &printer{w: w, color: opts.Color}

	if opts.Title && r.Mission != "" {
		p.header(fmt.Sprintf("### %s ###", r.Mission))
		p.printf("\n")
	}

	if opts.KillFeed {
		p.header("===Kill feed===")
		for _, line := range r.Feed {
			p.printf("%s\n", line)
		}
		p.printf("\n")
	}

	lines := r.Tally.Lines()

	p.header("===Victories===")
	for _, l := range lines {
		if l.Kills > 0 {
			p.printf("%s scored %d victories\n", core.CountryDisplayName(l.Country), l.Kills)
		}
	}

	p.printf("\n")
	p.header("===Losses===")
	for _, l := range lines {
		if l.Losses > 0 {
			p.printf("%s lost %d airframes\n", core.CountryDisplayName(l.Country), l.Losses)
		}
	}

	p.printf("\nScore formula = %d * victories - %d * losses\n", score.KillPoints, score.LossPoints)
	for _, l := range lines {
		p.printf("%s score: %d * %d - %d * %d = %s\n",
			core.CountryDisplayName(l.Country),
			score.KillPoints, l.Kills,
			score.LossPoints, l.Losses,
			p.score(l.Score))
	}

	if factions := r.Tally.Factions(); len(factions) > 0 {
		p.printf("\n")
		p.header("===Factions===")
		for _, f := range factions {
			p.printf("%s score: %d * %d - %d * %d = %s\n",
				f.Faction,
				score.KillPoints, f.Kills,
				score.LossPoints, f.Losses,
				p.score(f.Score))
		}
	}

	return p.err
}
