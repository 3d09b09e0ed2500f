// Package testutil provides the shared harnesses for interpreter and
// application level tests: fixture files are written to a temporary catalog
// directory and a full run is executed against it.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/archetype/internal/app"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/interp"
	"github.com/vk/archetype/internal/loader"
	"github.com/vk/archetype/internal/model"
	"github.com/vk/archetype/internal/props"
)

// WriteCatalog writes fixture files (relative path -> content) into a fresh
// temporary directory and returns its path.
func WriteCatalog(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return tmpDir
}

// ScriptResult holds the outcome of an interpreter-level run.
type ScriptResult struct {
	Tree      *model.Tree
	Props     *props.Context
	Err       error
	LogOutput string
}

// RunScripts writes the fixture files to a catalog directory and interprets
// the script graph starting at rootRef with the given options.
func RunScripts(t *testing.T, files map[string]string, rootRef string, opts interp.Options) *ScriptResult {
	t.Helper()

	catalogDir := WriteCatalog(t, files)

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	source, err := loader.NewCached(loader.NewDirSource(catalogDir))
	require.NoError(t, err)

	it := interp.New(source, opts)
	tree, runErr := it.Run(ctx, rootRef)

	if os.Getenv("ARCHETYPE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &ScriptResult{
		Tree:      tree,
		Props:     it.Properties(),
		Err:       runErr,
		LogOutput: logBuffer.String(),
	}
}

// AppResult holds the outcome of a full application run.
type AppResult struct {
	OutDir    string
	Err       error
	LogOutput string
}

// RunApp writes the fixture files to a catalog directory and executes a full
// generation (interpretation plus rendering) into a fresh destination
// directory. stdin is the console input fed to interactive prompts;
// configure may adjust the config before the run.
func RunApp(t *testing.T, files map[string]string, stdin string, configure func(*app.Config)) *AppResult {
	t.Helper()

	catalogDir := WriteCatalog(t, files)
	outDir := t.TempDir()

	cfg := app.Config{
		ArchetypePath: catalogDir,
		OutputDir:     outDir,
		Batch:         true,
		LogFormat:     "text",
		LogLevel:      "debug",
	}
	if configure != nil {
		configure(&cfg)
	}
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.New(strings.NewReader(stdin), logBuffer, config)
	runErr := testApp.Run(context.Background())

	if os.Getenv("ARCHETYPE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &AppResult{
		OutDir:    outDir,
		Err:       runErr,
		LogOutput: logBuffer.String(),
	}
}
