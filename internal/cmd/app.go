package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/compass/internal/config"
	"github.com/harrison/compass/internal/gateway"
	"github.com/harrison/compass/internal/journal"
	"github.com/harrison/compass/internal/logger"
	"github.com/harrison/compass/internal/store"
)

// app wires the shared dependencies for a command invocation: configuration,
// logging, the record store, the journal layer, and the gateway client.
type app struct {
	cfg     *config.Config
	home    string
	log     logger.Logger
	store   *store.Store
	journal *journal.Journal
	gateway *gateway.Client
}

// flagOverrides carries per-invocation flag values into the loaded
// configuration. Nil fields leave the configured value untouched.
type flagOverrides struct {
	locale  *string
	model   *string
	timeout *time.Duration
}

// overridesFromFlags reads the gateway override flags from a command,
// returning pointers only for flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) flagOverrides {
	var o flagOverrides
	if cmd.Flags().Changed("locale") {
		v, _ := cmd.Flags().GetString("locale")
		o.locale = &v
	}
	if cmd.Flags().Changed("model") {
		v, _ := cmd.Flags().GetString("model")
		o.model = &v
	}
	if cmd.Flags().Changed("timeout") {
		v, _ := cmd.Flags().GetDuration("timeout")
		o.timeout = &v
	}
	return o
}

// newApp loads configuration from the compass home and opens the store.
// withSessionLog controls whether a file logger is started; non-interactive
// subcommands run without one. The returned cleanup function must be called
// when the command finishes.
func newApp(withSessionLog bool, overrides flagOverrides) (*app, func(), error) {
	home, err := config.GetCompassHome()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadConfigFromDir(home)
	if err != nil {
		return nil, nil, err
	}
	cfg.MergeWithFlags(overrides.locale, overrides.model, overrides.timeout)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var log logger.Logger = logger.Nop{}
	var fileLog *logger.FileLogger
	if withSessionLog {
		logDir := cfg.LogDir
		if logDir == "" {
			logDir = filepath.Join(home, "logs")
		}
		fileLog, err = logger.NewFileLogger(logDir, cfg.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		log = fileLog
	}

	dbPath, err := config.GetJournalDBPath()
	if err != nil {
		if fileLog != nil {
			fileLog.Close()
		}
		return nil, nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		if fileLog != nil {
			fileLog.Close()
		}
		return nil, nil, err
	}

	a := &app{
		cfg:     cfg,
		home:    home,
		log:     log,
		store:   st,
		journal: journal.New(st, log),
		gateway: gateway.NewClient(cfg.Gateway, cfg.Locale, log),
	}

	cleanup := func() {
		st.Close()
		if fileLog != nil {
			fileLog.Close()
		}
	}

	return a, cleanup, nil
}
