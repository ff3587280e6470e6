package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type cliOptions struct {
	configDir string
	mission   string
	all       bool
	list      bool
	noWait    bool
	version   bool
}

// flagBindings maps flags onto config keys so a flag given on the
// command line overrides config.json and the environment.
var flagBindings = map[string]string{
	"data-dir":   "DATA_DIR",
	"log-level":  "logLevel",
	"match-mode": "attribution.matchMode",
	"storage":    "storage.type",
	"color":      "report.color",
	"kill-feed":  "report.killFeed",
}

func newFlagSet(opts *cliOptions, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configDir, "config-dir", ".", "directory containing config.json")
	fs.StringVar(&opts.mission, "mission", "", "score this mission without prompting")
	fs.BoolVar(&opts.all, "all", false, "score every mission found, one after another")
	fs.BoolVar(&opts.list, "list", false, "list missions and exit")
	fs.BoolVar(&opts.noWait, "no-wait", false, "do not wait for enter before exiting")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	fs.String("data-dir", "", "mission log directory (overrides DATA_DIR)")
	fs.String("log-level", "", "log level: debug, info, warn, error")
	fs.String("match-mode", "", "attacker lookback: literal or victim")
	fs.String("storage", "", "kill ledger: memory or sqlite")
	fs.String("color", "", "report color: auto, always, never")
	fs.Bool("kill-feed", true, "print the kill feed")

	return fs
}

// bindFlags binds the config-backed flags into viper. Flags that were not
// set on the command line leave the configured value alone.
func bindFlags(fs *pflag.FlagSet) error {
	for flag, key := range flagBindings {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// resolveColor decides whether the report is colored.
func resolveColor(mode string, terminal bool) (bool, error) {
	switch mode {
	case "", "auto":
		return terminal, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
}

// isTerminal reports whether w is an interactive console.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorWriter makes ANSI escapes work on Windows consoles.
func colorWriter(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}
