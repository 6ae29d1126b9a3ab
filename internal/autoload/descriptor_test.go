package autoload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/addonkit/internal/fsutil"
)

func TestDiscover_OrdersByDepthThenPath(t *testing.T) {
	// --- Arrange ---
	root := writeTree(t, map[string]string{
		"z.hcl":             "",
		"a.hcl":             "",
		"sub/b.hcl":         "",
		"sub/deep/c.hcl":    "",
		"alpha/d.hcl":       "",
		"package.hcl":       "",
		"sub/b_test.hcl":    "",
		".hidden/e.hcl":     "",
		"testdata/f.hcl":    "",
		"readme.md":         "",
		"sub/deep/skip.hcl": "",
	})

	// --- Act ---
	descs, err := Discover(context.Background(), root, "addons", fsutil.ExcludePolicy{Patterns: []string{"skip.hcl"}})

	// --- Assert ---
	require.NoError(t, err)
	var paths []string
	for _, d := range descs {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{
		"addons/a",
		"addons/z",
		"addons/alpha/d",
		"addons/sub/b",
		"addons/sub/deep/c",
	}, paths)
}

func TestDiscover_SortsByImportPathNotFileName(t *testing.T) {
	// --- Arrange ---
	root := writeTree(t, map[string]string{
		"a-b.hcl":     "",
		"a.hcl":       "",
		"a_c.hcl":     "",
		"sub/x.hcl":   "",
		"sub-x/y.hcl": "",
	})

	// --- Act ---
	descs, err := Discover(context.Background(), root, "addons", fsutil.ExcludePolicy{})

	// --- Assert ---
	require.NoError(t, err)
	var paths []string
	for _, d := range descs {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{
		"addons/a",
		"addons/a-b",
		"addons/a_c",
		"addons/sub-x/y",
		"addons/sub/x",
	}, paths)
}

func TestDiscover_DescriptorFields(t *testing.T) {
	root := writeTree(t, map[string]string{"a.hcl": "", "sub/b.hcl": ""})

	descs, err := Discover(context.Background(), root, "addons", fsutil.ExcludePolicy{})

	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, Descriptor{Path: "addons/a", Package: "addons", File: filepath.Join(root, "a.hcl"), Depth: 0}, descs[0])
	assert.Equal(t, Descriptor{Path: "addons/sub/b", Package: "addons/sub", File: filepath.Join(root, "sub", "b.hcl"), Depth: 1}, descs[1])
	assert.Equal(t, "addons/sub/b (depth 1)", descs[1].String())
}

func TestDiscover_DefaultsPackageToRootName(t *testing.T) {
	root := writeTree(t, map[string]string{"tools/a.hcl": ""})

	descs, err := Discover(context.Background(), filepath.Join(root, "tools"), "", fsutil.ExcludePolicy{})

	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "tools/a", descs[0].Path)
}

func TestDiscover_InvalidRoot(t *testing.T) {
	root := writeTree(t, map[string]string{"file.hcl": ""})
	tests := []struct {
		name string
		root string
	}{
		{name: "missing", root: filepath.Join(root, "missing")},
		{name: "not a directory", root: filepath.Join(root, "file.hcl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(context.Background(), tt.root, "addons", fsutil.ExcludePolicy{})

			var discErr *DiscoveryError
			require.True(t, errors.As(err, &discErr))
			assert.Equal(t, tt.root, discErr.Root)
		})
	}
}

func TestDiscover_MissingRootWrapsNotExist(t *testing.T) {
	_, err := Discover(context.Background(), filepath.Join(t.TempDir(), "gone"), "addons", fsutil.ExcludePolicy{})

	assert.ErrorIs(t, err, os.ErrNotExist)
}
