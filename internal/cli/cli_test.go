package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/addonkit/internal/app"
	"go.yaml.in/yaml/v3"
)

// writeAddons creates a small plugin tree and returns its root.
func writeAddons(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "addons")
	require.NoError(t, os.MkdirAll(root, 0755))
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

var uvTree = map[string]string{
	"uv.hcl": `
		class "ToggleUV" {
			impl = "uvdisplay.toggle"
		}
	`,
	"menu/topbar.hcl": `
		class "Menu" {
			impl = "topbar.menu"
		}
	`,
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	exitErr, ok := err.(*ExitError)
	require.True(t, ok, "expected *ExitError, got %T: %v", err, err)
	require.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestExecute_Load(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	var out, logs bytes.Buffer

	// --- Act ---
	err := Execute([]string{"load", "--root", root}, &out, &logs)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "registered 2 entities (0 skipped, 0 failed)\n", out.String())
	require.Contains(t, logs.String(), "Load cycle finished.")
}

func TestExecute_ListText(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	var out bytes.Buffer

	// --- Act ---
	err := Execute([]string{"list", "-r", root}, &out, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "ID")
	require.Contains(t, out.String(), "addons/uv:ToggleUV")
	require.Contains(t, out.String(), "addons/menu/topbar:Menu")
}

func TestExecute_ListYAML(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	var out bytes.Buffer

	// --- Act ---
	err := Execute([]string{"list", "--root", root, "--package", "kit", "-o", "yaml"}, &out, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	var st app.Status
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &st))
	require.Equal(t, "kit", st.Package)
	require.Equal(t, []string{"kit/menu/topbar", "kit/uv"}, st.Modules)
	require.Len(t, st.Registered, 2)
	require.Equal(t, "kit/uv:ToggleUV", st.Registered[0].ID)
}

func TestExecute_Reload(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	var out bytes.Buffer

	// --- Act ---
	err := Execute([]string{"reload", "--root", root}, &out, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "reloaded 2 entities (0 skipped, 0 failed)\n", out.String())
}

func TestExecute_UsageErrors(t *testing.T) {
	root := writeAddons(t, uvTree)

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{name: "missing root", args: []string{"load"}, wantMsg: "Root is a required"},
		{name: "unknown flag", args: []string{"load", "--nope"}, wantMsg: "unknown flag"},
		{name: "bad output", args: []string{"list", "--root", root, "-o", "json"}, wantMsg: "invalid output"},
		{name: "bad log level", args: []string{"load", "--root", root, "--log-level", "loud"}, wantMsg: "invalid log level"},
		{name: "missing config file", args: []string{"load", "--config", filepath.Join(root, "nope.yaml")}, wantMsg: "reading config file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			err := Execute(tc.args, &bytes.Buffer{}, &bytes.Buffer{})

			// --- Assert ---
			exitErr := requireExitCode(t, err, 2)
			require.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

func TestExecute_StrictImportFailure(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, map[string]string{"broken.hcl": `class "X" {`})

	// --- Act ---
	err := Execute([]string{"load", "--root", root, "--strict-import"}, &bytes.Buffer{}, &bytes.Buffer{})

	// --- Assert ---
	exitErr := requireExitCode(t, err, 1)
	require.Contains(t, exitErr.Message, "addons/broken")
}

func TestExecute_RootFromEnvironment(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	t.Setenv("ADDONKIT_ROOT", root)
	t.Setenv("ADDONKIT_HOST_VERSION", "4.3.0")
	var out bytes.Buffer

	// --- Act ---
	err := Execute([]string{"load"}, &out, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "registered 2 entities")
}

func TestExecute_ConfigFile(t *testing.T) {
	// --- Arrange ---
	root := writeAddons(t, uvTree)
	cfgFile := filepath.Join(t.TempDir(), "addonkit.yaml")
	content := "root: " + root + "\npackage: fromfile\nexclude:\n  - menu\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0644))
	var out bytes.Buffer

	// --- Act ---
	err := Execute([]string{"list", "--config", cfgFile, "-o", "yaml"}, &out, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	var st app.Status
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &st))
	require.Equal(t, "fromfile", st.Package)
	require.Equal(t, []string{"fromfile/uv"}, st.Modules)
}
