// Package scan walks a project tree and runs the normalizer over every module
// file, producing a per-file dependency inventory and, via Precompile, an
// ahead-of-time normalized copy of the tree a sandbox can boot from.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codesand/internal/normalizer"
	"codesand/internal/safeio"
)

// Dirs never descended into.
var skipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true,
	"build": true, "dist": true, ".cache": true,
}

// moduleExts are the file kinds the sandbox treats as modules.
var moduleExts = map[string]bool{".js": true, ".mjs": true, ".cjs": true}

// FileDeps pairs a root-relative path with the specifiers its module
// references.
type FileDeps struct {
	Path         string
	Dependencies []string
}

// VisitFunc is an optional callback invoked with each file's normalize
// result, letting callers accumulate custom stats in the same walk.
type VisitFunc func(path string, res normalizer.Result)

// Deps walks root and returns the dependency list of every module file,
// in walk order. It is equivalent to DepsWithCallback(root, nil).
func Deps(root string) ([]FileDeps, error) {
	return DepsWithCallback(root, nil)
}

// DepsWithCallback walks root and also invokes cb with each file's full
// normalize result.
func DepsWithCallback(root string, cb VisitFunc) ([]FileDeps, error) {
	var out []FileDeps
	err := walkModules(root, func(rel string, res normalizer.Result) error {
		if cb != nil {
			cb(rel, res)
		}
		out = append(out, FileDeps{Path: rel, Dependencies: res.Dependencies})
		return nil
	})
	return out, err
}

// Precompile normalizes every module file under root and writes the rewritten
// form to the same relative path under out, creating directories as needed.
// Writes are atomic, so a sandbox never boots from a half-written file.
func Precompile(root, out string) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("scan: create output root: %w", err)
	}
	dst, err := safeio.NewRoot(out)
	if err != nil {
		return err
	}
	return walkModules(root, func(rel string, res normalizer.Result) error {
		if err := dst.WriteFileAtomic(rel, []byte(res.Code)); err != nil {
			return fmt.Errorf("scan: write %s: %w", rel, err)
		}
		return nil
	})
}

func walkModules(root string, visit func(rel string, res normalizer.Result) error) error {
	src, err := safeio.NewRoot(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(src.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != src.Dir() && skipDirs[filepath.Base(path)] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(src.Dir(), path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !moduleExts[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		b, err := src.ReadFile(rel)
		if err != nil {
			return fmt.Errorf("scan: read %s: %w", rel, err)
		}
		return visit(rel, normalizer.Normalize(string(b)))
	})
}
