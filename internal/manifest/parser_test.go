package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_KeepsSourceOrder(t *testing.T) {
	// --- Arrange ---
	src := `
module {
  version       = "1.2.0"
  requires_host = ">= 2.80"
}

function "keymaps" {
  impl = "cursor.keymaps"
}

class "VIEW3D_OT_cursor_snap" {
  impl     = "cursor.snap"
  settings = { default_mode = "cursor", precision = 2 }
}

function "handlers" {
  impl = "rendervis.handlers"
}
`

	// --- Act ---
	f, err := Parse([]byte(src), "addons/cursor.hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", f.Version.String())
	assert.True(t, f.RequiresHost.Check(semver.MustParse("2.80.0")))
	assert.False(t, f.RequiresHost.Check(semver.MustParse("2.79.0")))

	require.Len(t, f.Declarations, 3)
	assert.Equal(t, DeclFunction, f.Declarations[0].Kind)
	assert.Equal(t, "keymaps", f.Declarations[0].Name)
	assert.Equal(t, DeclClass, f.Declarations[1].Kind)
	assert.Equal(t, "cursor.snap", f.Declarations[1].Impl)
	assert.Equal(t, "handlers", f.Declarations[2].Name)

	settings := f.Declarations[1].Settings
	assert.Equal(t, cty.StringVal("cursor"), settings.GetAttr("default_mode"))
	assert.True(t, f.Declarations[0].Settings.RawEquals(cty.EmptyObjectVal))
}

func TestParse_NoModuleBlock(t *testing.T) {
	f, err := Parse([]byte(`class "A" { impl = "x" }`), "a.hcl")

	require.NoError(t, err)
	assert.Nil(t, f.Version)
	assert.Nil(t, f.RequiresHost)
	require.Len(t, f.Declarations, 1)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax error", src: `class "A" {`, wantErr: "failed to parse HCL file"},
		{name: "unknown block", src: `panel "A" {}`, wantErr: "failed to decode HCL file"},
		{name: "missing impl", src: `class "A" {}`, wantErr: "failed to decode class 'A'"},
		{name: "empty impl", src: `function "f" { impl = "" }`, wantErr: "must not be empty"},
		{name: "duplicate name", src: "class \"A\" { impl = \"x\" }\nfunction \"A\" { impl = \"y\" }", wantErr: "'A' already declared"},
		{name: "bad version", src: `module { version = "one" }`, wantErr: "invalid module version"},
		{name: "bad constraint", src: `module { requires_host = ">>> 2" }`, wantErr: "invalid requires_host"},
		{name: "misspelled module attribute", src: `module { require_host = ">= 5" }`, wantErr: "failed to decode module block"},
		{name: "two module blocks", src: "module {}\nmodule {}", wantErr: "duplicate module block"},
		{name: "settings not object", src: "class \"A\" {\n  impl = \"x\"\n  settings = 3\n}", wantErr: "must be an object"},
		{name: "settings with variables", src: "class \"A\" {\n  impl = \"x\"\n  settings = { a = var.b }\n}", wantErr: "failed to evaluate settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "broken.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseFile_ReadsFreshBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`class "A" { impl = "x" }`), 0644))
	first, err := ParseFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`class "B" { impl = "y" }`), 0644))
	second, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "A", first.Declarations[0].Name)
	assert.Equal(t, "B", second.Declarations[0].Name)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.hcl"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
