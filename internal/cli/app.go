package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/gitsome-search/internal/api"
	"github.com/thesavant42/gitsome-search/internal/config"
	"github.com/thesavant42/gitsome-search/internal/db"
	"github.com/thesavant42/gitsome-search/internal/history"
	"github.com/thesavant42/gitsome-search/internal/session"
)

const logFileName = "gitsome-search.log"

// globalFlags are the persistent flags shared by every command.
// Set flags override the environment.
type globalFlags struct {
	dbPath     string
	backend    string
	token      string
	apiURL     string
	logLevel   string
	strict     bool
	exactCache bool
	maxHistory int
	plain      bool
}

// app is the wired object graph for one command invocation
type app struct {
	cfg     config.Config
	plain   bool
	logger  *log.Logger
	logFile io.Closer
	slots   db.SlotStore
	store   *history.Store
	client  *api.Client
	session *session.Session
}

// resolveConfig loads the environment and applies flags the user set
func resolveConfig(flags *globalFlags, changed func(name string) bool) config.Config {
	cfg := config.Load()

	if changed("db") {
		cfg.DBPath = flags.dbPath
	}
	if changed("store") {
		cfg.Backend = flags.backend
	}
	if changed("token") {
		cfg.Token = flags.token
	}
	if changed("api-url") {
		cfg.APIBaseURL = flags.apiURL
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("strict") {
		cfg.StrictFilters = flags.strict
	}
	if changed("exact-cache") {
		cfg.ExactCache = flags.exactCache
	}
	if changed("max-history") {
		cfg.MaxHistory = flags.maxHistory
	}
	return cfg
}

// newApp wires the slot store, history, API client and session from cfg.
// Nothing touches the database until the first history read or write.
func newApp(cfg config.Config, plain bool) (*app, error) {
	slots, err := db.NewSlotStore(cfg.Backend, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	logger, logFile := newFileLogger(cfg.DBPath, cfg.Level())

	store := history.New(slots,
		history.WithMaxRecords(cfg.MaxHistory),
		history.WithLogger(logger.WithPrefix("HISTORY")),
	)

	client := api.NewClient(cfg.Token,
		api.WithLogger(logger.WithPrefix("API")),
		api.WithBreaker(api.DefaultBreakerConfig()),
	)

	sess := session.New(client, store, session.Options{
		BaseURL:       cfg.APIBaseURL,
		StrictFilters: cfg.StrictFilters,
		ExactCache:    cfg.ExactCache,
		Logger:        logger.WithPrefix("SESSION"),
	})

	logger.Debug("Starting", "db", cfg.DBPath, "store", cfg.Backend, "api", cfg.APIBaseURL)

	return &app{
		cfg:     cfg,
		plain:   plain,
		logger:  logger,
		logFile: logFile,
		slots:   slots,
		store:   store,
		client:  client,
		session: sess,
	}, nil
}

// Close releases the slot store and the log file
func (a *app) Close() error {
	err := a.slots.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}

// newFileLogger creates a logger that writes to a file in the same directory as
// the database, creating the directory first. Falls back to warnings on stderr
// if the file can't be opened.
func newFileLogger(dbPath string, level log.Level) (*log.Logger, io.Closer) {
	dir := filepath.Dir(dbPath)
	logFile := filepath.Join(dir, logFileName)

	err := os.MkdirAll(dir, 0755)
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	}
	if err != nil {
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
		logger.Warn("Could not open log file, logging to stderr", "path", logFile, "error", err)
		return logger, nil
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})
	return logger, f
}
