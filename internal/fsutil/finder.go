// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Default exclusion names.
const (
	PackageMarker = "package.hcl"
	TestdataDir   = "testdata"
	TestSuffix    = "_test.hcl"
)

// ExcludePolicy decides which entries of a plugin tree are not modules.
type ExcludePolicy struct {
	// Patterns are extra filepath.Match globs, tried against the
	// slash-separated path relative to the root and against the base name.
	Patterns []string
}

// Excluded reports whether the entry at rel (slash-separated, relative to the
// walk root) is skipped. Directories that are excluded are not descended into.
func (p ExcludePolicy) Excluded(rel string, isDir bool) bool {
	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if isDir {
		if name == TestdataDir {
			return true
		}
	} else if name == PackageMarker || strings.HasSuffix(name, TestSuffix) {
		return true
	}
	for _, pattern := range p.Patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension that the policy does not exclude. It
// returns paths relative to the root, slash-separated, in walk order.
func FindFilesByExtension(rootPath string, extension string, policy ExcludePolicy) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootPath {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if policy.Excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, rel)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// Dirs returns the root and every non-excluded directory below it.
func Dirs(rootPath string, policy ExcludePolicy) ([]string, error) {
	dirs := []string{rootPath}
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootPath || !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}
		if policy.Excluded(filepath.ToSlash(rel), true) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
