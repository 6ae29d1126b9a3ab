package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/addonkit/internal/app"
	"github.com/vk/addonkit/internal/autoload"
	"github.com/vk/addonkit/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Root      string
	LogOutput string
	Result    autoload.Result
	Err       error
	App       *app.App
}

// Options tweak the app built by RunIntegrationTest.
type Options struct {
	Package      string
	StrictImport bool
	Debug        bool
	HostVersion  string
	Exclude      []string
}

// RunIntegrationTest writes files (slash-separated path relative to the
// plugin root -> content) into a temporary plugin tree, builds an app over it
// and enables it. Without modules the compiled-in plugin modules are used.
func RunIntegrationTest(t *testing.T, files map[string]string, opts Options, modules ...registry.Module) *HarnessResult {
	t.Helper()

	root := filepath.Join(t.TempDir(), "addons")
	require.NoError(t, os.Mkdir(root, 0755))
	WriteFiles(t, root, files)

	cfg, err := app.NewConfig(app.Config{
		Root:         root,
		Package:      opts.Package,
		Exclude:      opts.Exclude,
		StrictImport: opts.StrictImport,
		Debug:        opts.Debug,
		HostVersion:  opts.HostVersion,
		LogLevel:     "debug",
		LogFormat:    "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := app.NewApp(logBuffer, cfg, modules...)
	res, runErr := testApp.Enable(context.Background())

	if os.Getenv("ADDONKIT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Root:      root,
		LogOutput: logBuffer.String(),
		Result:    res,
		Err:       runErr,
		App:       testApp,
	}
}

// WriteFiles writes files under root, creating directories as needed.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}
