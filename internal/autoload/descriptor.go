package autoload

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/fsutil"
)

// SourceExt is the extension of plugin source files.
const SourceExt = ".hcl"

// Descriptor identifies one discovered plugin source file.
type Descriptor struct {
	// Path is the import path: the package name followed by the file's
	// slash-separated path without extension, e.g. "addons/sub/b".
	Path string
	// Package is the import path of the containing package.
	Package string
	// File is the absolute path on disk.
	File string
	// Depth counts the directories between the package root and the file.
	Depth int
}

// Discover walks root and returns a Descriptor for every plugin source file
// the policy does not exclude, ordered by depth and then by import path.
// Import paths carry no extension, so at equal depth "a" comes before "a-b"
// even though "a-b.hcl" sorts before "a.hcl" on disk.
func Discover(ctx context.Context, root, pkg string, policy fsutil.ExcludePolicy) ([]Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &DiscoveryError{Root: root, Err: errors.New("not a directory")}
	}
	if pkg == "" {
		pkg = filepath.Base(absRoot)
	}

	files, err := fsutil.FindFilesByExtension(absRoot, SourceExt, policy)
	if err != nil {
		return nil, &DiscoveryError{Root: root, Err: err}
	}

	descs := make([]Descriptor, 0, len(files))
	for _, rel := range files {
		descs = append(descs, newDescriptor(absRoot, pkg, rel))
	}
	slices.SortFunc(descs, func(a, b Descriptor) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), strings.Compare(a.Path, b.Path))
	})

	logger.Debug("Discovered plugin modules.", "root", absRoot, "package", pkg, "count", len(descs))
	return descs, nil
}

func newDescriptor(absRoot, pkg, rel string) Descriptor {
	importPath := path.Join(pkg, strings.TrimSuffix(rel, SourceExt))
	return Descriptor{
		Path:    importPath,
		Package: path.Dir(importPath),
		File:    filepath.Join(absRoot, filepath.FromSlash(rel)),
		Depth:   strings.Count(rel, "/"),
	}
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (depth %d)", d.Path, d.Depth)
}
