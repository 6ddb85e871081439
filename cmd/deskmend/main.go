package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/deskmend/internal/catalog"
	"github.com/dokzlo13/deskmend/internal/config"
	"github.com/dokzlo13/deskmend/internal/db"
	"github.com/dokzlo13/deskmend/internal/ledger"
	"github.com/dokzlo13/deskmend/internal/reconcile"
	"github.com/dokzlo13/deskmend/internal/report"
	"github.com/dokzlo13/deskmend/internal/sysops"
)

func main() {
	// The dev-tool group flags are declared in the config file, so the
	// config path is pre-scanned before the full flag set is built.
	configPath := configPathFromArgs(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Support both -c and --config for config path
	var cfgFlag string
	flag.StringVar(&cfgFlag, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&cfgFlag, "c", "config.yaml", "Path to configuration file (shorthand)")

	// One boolean flag per optional tool group; absence excludes the
	// group from the run entirely.
	groupFlags := make(map[string]*bool, len(cfg.DevTools))
	for _, tool := range cfg.DevTools {
		groupFlags[tool.Flag] = flag.Bool(tool.Flag, false, "Check and install "+tool.Name)
	}
	flag.Parse()

	// Setup logging
	setupLogging(cfg.Log.GetLevel(), cfg.Log.UseJSON, cfg.Log.Colors)

	log.Info().Str("config", configPath).Msg("Starting deskmend")

	enabled := make(map[string]bool, len(groupFlags))
	for name, set := range groupFlags {
		enabled[name] = *set
	}

	// Create context that cancels on shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := sysops.ExecRunner{}
	deps := catalog.Deps{
		Registry:  sysops.NewRegClient(runner),
		Languages: sysops.NewPSLanguageList(runner),
		Packages:  sysops.NewWingetManager(runner),
		Shell:     sysops.NewExplorerShell(runner),
	}

	var runLedger *ledger.Ledger
	if cfg.Ledger.Enabled {
		database, err := db.Open(cfg.Ledger.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open run ledger")
		}
		defer database.Close()
		runLedger = ledger.New(database.DB)

		retention := time.Duration(cfg.Ledger.RetentionDays) * 24 * time.Hour
		if deleted, err := runLedger.DeleteOlderThan(retention); err != nil {
			log.Warn().Err(err).Msg("Ledger retention cleanup failed")
		} else if deleted > 0 {
			log.Debug().Int64("deleted", deleted).Msg("Pruned old ledger entries")
		}
	}

	descriptors := catalog.Build(cfg, deps, enabled)
	rc := reconcile.New().Run(ctx, descriptors)

	reporter := report.New(deps.Shell, runLedger)
	if err := reporter.Report(ctx, rc); err != nil {
		log.Error().Err(err).Msg("Post-run action failed")
	}

	if rc.Errors() > 0 {
		os.Exit(1)
	}
}

// configPathFromArgs extracts -config/-c from the raw arguments before
// the flag set is assembled.
func configPathFromArgs(args []string) string {
	path := "config.yaml"
	for i := 0; i < len(args); i++ {
		arg := args[i]
		for _, name := range []string{"-config", "--config", "-c", "--c"} {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}
			if len(arg) > len(name)+1 && arg[:len(name)+1] == name+"=" {
				return arg[len(name)+1:]
			}
		}
	}
	return path
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
