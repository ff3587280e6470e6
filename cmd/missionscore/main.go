package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/OCAP2/missionscore/internal/attribution"
	"github.com/OCAP2/missionscore/internal/config"
	"github.com/OCAP2/missionscore/internal/logging"
	"github.com/OCAP2/missionscore/internal/mission"
	"github.com/OCAP2/missionscore/internal/missionlog"
	intOtel "github.com/OCAP2/missionscore/internal/otel"
	"github.com/OCAP2/missionscore/internal/pipeline"
	"github.com/OCAP2/missionscore/internal/prompt"
	"github.com/OCAP2/missionscore/internal/report"
	"github.com/OCAP2/missionscore/pkg/core"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "missionscore"
)

const closePrompt = "Press enter to close the window"

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fs:     afero.NewOsFs(),
	}
	os.Exit(a.run(os.Args[1:]))
}

// app is one invocation of the CLI.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs

	slogManager  *logging.SlogManager
	logger       *slog.Logger
	otelProvider *intOtel.Provider
	missionCtx   *mission.Context
	logFile      io.Closer
}

func (a *app) run(args []string) int {
	var opts cliOptions
	flags := newFlagSet(&opts, a.stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(a.stdout, "%s %s (%s)\n", AppName, CurrentVersion, BuildDate)
		return 0
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(a.stderr, "error loading .env: %v\n", err)
		return 1
	}

	viper.SetFs(a.fs)
	cfgErr := config.Load(opts.configDir)
	if cfgErr != nil && !config.IsNotFound(cfgErr) {
		fmt.Fprintln(a.stderr, cfgErr)
		return 1
	}
	if err := bindFlags(flags); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	if err := a.setupLogging(); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	defer a.shutdown()

	if cfgErr != nil {
		a.logger.Warn("No config file found, using defaults", "configDir", opts.configDir)
	}
	a.logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate)

	code := a.score(opts)

	if !opts.noWait {
		prompt.WaitForEnter(a.stdin, a.stdout, closePrompt)
	}
	return code
}

func (a *app) setupLogging() error {
	a.missionCtx = mission.NewContext()
	a.slogManager = logging.NewSlogManager()
	a.slogManager.SetContext(a.missionCtx)

	logLevel := config.GetString("logLevel")
	var logWriter io.Writer = a.stderr

	if logsDir := config.GetString("logsDir"); logsDir != "" {
		f, err := logging.OpenLogFile(logsDir, AppName, time.Now())
		if err != nil {
			return err
		}
		a.logFile = f
		logWriter = f
	}

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logWriter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OTel provider: %w", err)
	}
	a.otelProvider = provider

	a.slogManager.Setup(logWriter, logLevel, provider.LoggerProvider())
	a.logger = a.slogManager.Logger()
	return nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.slogManager.Flush(ctx); err != nil {
		fmt.Fprintf(a.stderr, "error flushing logs: %v\n", err)
	}
	if err := a.otelProvider.Shutdown(ctx); err != nil {
		fmt.Fprintf(a.stderr, "error shutting down OTel: %v\n", err)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// score discovers missions, picks which to score and prints a report for
// each. Every mission is scored independently; a failing one does not
// stop the others but makes the exit code non-zero.
func (a *app) score(opts cliOptions) int {
	dataDir := config.GetDataDir()
	missions, err := missionlog.Discover(a.fs, dataDir)
	if err != nil {
		a.logger.Error("Failed to discover missions", "dataDir", dataDir, "error", err)
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	names := missions.Names()
	a.logger.Info("Missions discovered", "dataDir", dataDir, "count", len(names))

	if opts.list {
		for _, name := range names {
			fmt.Fprintln(a.stdout, name)
		}
		return 0
	}

	selected, err := a.selectMissions(opts, missions, names)
	if err != nil {
		a.logger.Error("No mission selected", "error", err)
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	matchMode, err := attribution.ParseMatchMode(config.GetAttributionConfig().MatchMode)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	factory, err := createBackendFactory(config.GetStorageConfig())
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	reportCfg := config.GetReportConfig()
	color, err := resolveColor(reportCfg.Color, isTerminal(a.stdout))
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	out := a.stdout
	if color {
		out = colorWriter(out)
	}

	runner, err := pipeline.New(pipeline.Options{
		MatchMode:  matchMode,
		NewBackend: factory,
		Logger:     a.logger,
		Mission:    a.missionCtx,
	})
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}

	code := 0
	for i, name := range selected {
		if i > 0 {
			fmt.Fprintln(out)
		}

		text, err := missions.LoadMission(a.fs, dataDir, name)
		if err != nil {
			a.logger.Error("Failed to load mission", "mission", name, "error", err)
			fmt.Fprintln(a.stderr, err)
			code = 1
			continue
		}

		res, err := runner.Run(name, text)
		if err != nil {
			a.logScoringError(name, err)
			fmt.Fprintf(a.stderr, "error scoring %s: %v\n", name, err)
			code = 1
			continue
		}

		err = report.Write(out, report.FromResult(res), report.Options{
			Color:    color,
			KillFeed: reportCfg.KillFeed,
			Title:    len(selected) > 1,
		})
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return 1
		}
	}
	return code
}

func (a *app) selectMissions(opts cliOptions, missions missionlog.Missions, names []string) ([]string, error) {
	switch {
	case opts.all:
		if len(names) == 0 {
			return nil, prompt.ErrNoMissions
		}
		return names, nil
	case opts.mission != "":
		if _, ok := missions[opts.mission]; !ok {
			return nil, fmt.Errorf("mission %q not found", opts.mission)
		}
		return []string{opts.mission}, nil
	default:
		name, err := prompt.Select(a.stdin, a.stdout, names)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
}

// logScoringError logs the offending line or entity of a failed run.
func (a *app) logScoringError(name string, err error) {
	var malformed *core.MalformedEventError
	var unresolved *core.UnresolvedCountryError
	switch {
	case errors.As(err, &malformed):
		a.logger.Error("Malformed event",
			"mission", name,
			"line", malformed.Line,
			"raw", malformed.Raw,
			"field", malformed.Field,
			"error", err)
	case errors.As(err, &unresolved):
		a.logger.Error("Entity without country",
			"mission", name,
			"entity", unresolved.Entity,
			"role", unresolved.Role,
			"error", err)
	default:
		a.logger.Error("Failed to score mission", "mission", name, "error", err)
	}
}
