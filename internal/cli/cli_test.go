package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/gitsome-search/internal/config"
	"github.com/thesavant42/gitsome-search/internal/models"
	"github.com/thesavant42/gitsome-search/internal/session"
)

func TestResolveParams(t *testing.T) {
	records := []models.SearchRecord{
		{Query: "react", URL: "u1"},
		{Query: "vue", Filters: models.Filters{Language: "go"}, URL: "u2", Sort: models.SortState{Column: models.SortStars, Direction: models.DirectionAsc}},
	}

	params, err := resolveParams("2", records)
	require.NoError(t, err)
	assert.Equal(t, session.StateFromRecord(records[1]), session.Rehydrate(params))

	params, err = resolveParams("?query=svelte&minForks=3", records)
	require.NoError(t, err)
	assert.Equal(t, session.State{Query: "svelte", Filters: models.Filters{MinForks: "3"}}, session.Rehydrate(params))

	_, err = resolveParams("0", records)
	assert.Error(t, err)
	_, err = resolveParams("3", records)
	assert.Error(t, err)
}

func TestResolveConfig(t *testing.T) {
	t.Setenv("GITSOME_DB", "from-env.db")
	t.Setenv("GITSOME_MAX_HISTORY", "10")
	t.Setenv("GITSOME_STRICT_FILTERS", "")

	flags := &globalFlags{dbPath: "from-flag.db", maxHistory: 99, strict: true}

	// Unset flags keep the environment
	cfg := resolveConfig(flags, func(string) bool { return false })
	assert.Equal(t, "from-env.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.MaxHistory)
	assert.False(t, cfg.StrictFilters)

	changed := map[string]bool{"db": true, "strict": true}
	cfg = resolveConfig(flags, func(name string) bool { return changed[name] })
	assert.Equal(t, "from-flag.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.MaxHistory)
	assert.True(t, cfg.StrictFilters)
}

func TestNewAppRejectsUnknownBackend(t *testing.T) {
	_, err := newApp(config.Config{Backend: "redis", DBPath: filepath.Join(t.TempDir(), "h.db")}, true)
	assert.Error(t, err)
}

// TestCommands runs search, open and history against a local server
func TestCommands(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"items":[{"id":1,"full_name":"facebook/react","html_url":"https://github.com/facebook/react","stargazers_count":200000,"forks_count":40000}]}`))
	}))
	defer srv.Close()

	for _, backend := range []string{"sqlite", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			hits.Store(0)
			t.Setenv("GITHUB_TOKEN", "")
			dir := t.TempDir()
			dbPath := filepath.Join(dir, "history.db")

			run := func(args ...string) error {
				base := []string{"--plain", "--store", backend, "--db", dbPath, "--api-url", srv.URL}
				cmd := NewRootCmd("test")
				cmd.SetArgs(append(base, args...))
				return cmd.Execute()
			}

			require.NoError(t, run("search", "react", "--language", "go"))
			require.NoError(t, run("open", "1"))
			require.NoError(t, run("open", "query=react&language=go"))
			require.NoError(t, run("history", "--json"))
			require.NoError(t, run("history", "--markdown="+filepath.Join(dir, "report")))

			assert.Equal(t, int32(1), hits.Load())
			assert.FileExists(t, filepath.Join(dir, logFileName))
			assert.FileExists(t, filepath.Join(dir, "report.md"))

			a, err := newApp(config.Config{Backend: backend, DBPath: dbPath}, true)
			require.NoError(t, err)
			records := a.store.LoadAll()
			require.NoError(t, a.Close())
			require.Len(t, records, 1)
			assert.Equal(t, "react", records[0].Query)
			assert.Equal(t, models.Filters{Language: "go"}, records[0].Filters)

			require.Error(t, run("open", "7"))
			require.Error(t, run("search", "react", "--sort", "name"))
		})
	}
}

func TestNewFileLoggerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	logger, closer := newFileLogger(filepath.Join(dir, "history.db"), log.InfoLevel)
	require.NotNil(t, closer)
	defer closer.Close()

	logger.Info("first run")
	assert.FileExists(t, filepath.Join(dir, logFileName))
}

func TestCommandsWithNestedDatabasePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITSOME_LOG_LEVEL", "info")

	dir := filepath.Join(t.TempDir(), "a", "b")
	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"--plain", "--db", filepath.Join(dir, "history.db"), "--api-url", srv.URL, "search", "react"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Saved search")
}

func TestNewFileLoggerFallsBack(t *testing.T) {
	// A file where the directory should be makes the log file unopenable
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	logger, closer := newFileLogger(filepath.Join(blocker, "history.db"), 0)
	assert.NotNil(t, logger)
	assert.Nil(t, closer)
}
