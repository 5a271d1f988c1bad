// Package loader drives the sandbox's module-loading step: it walks the
// dependency lists the normalizer extracts and fetches plus normalizes every
// reachable module before anything is evaluated. That upfront walk is what
// makes the synchronous require inside rewritten code safe in a browser
// context — no resolution happens at call time.
//
// Resolution itself (package store lookup, virtual filesystem, network) stays
// with the host behind FetchFunc.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/hashicorp/golang-lru/v2"

	"codesand/internal/normalizer"
)

// FetchFunc returns the raw source for a specifier. Specifiers arrive exactly
// as written in the importing module, node:-prefixed ones included.
type FetchFunc func(ctx context.Context, specifier string) (string, error)

// Module is one normalized module, ready for registration with the sandbox.
type Module struct {
	Specifier    string
	Code         string
	Dependencies []string
}

// Loader fetches and normalizes module graphs. Normalization results are
// memoized by source content hash, so a package shared by many entry points
// is transformed once. Safe for concurrent use; each Load keeps its own walk
// state.
type Loader struct {
	fetch FetchFunc
	cache *lru.Cache[string, normalizer.Result]
}

const defaultCacheSize = 256

func New(fetch FetchFunc, cacheSize int) (*Loader, error) {
	if fetch == nil {
		return nil, errors.New("loader: nil fetch func")
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, normalizer.Result](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("loader: cache: %w", err)
	}
	return &Loader{fetch: fetch, cache: cache}, nil
}

// Load fetches and normalizes entry and everything it transitively
// references. Modules come back dependency-first so the host can register
// each one before evaluating the next; the entry is always last. Import
// cycles are broken by the visited set, so a module appears at most once.
func (l *Loader) Load(ctx context.Context, entry string) ([]Module, error) {
	visited := make(map[string]bool)
	var order []Module
	if err := l.load(ctx, entry, visited, &order); err != nil {
		return nil, err
	}
	return order, nil
}

func (l *Loader) load(ctx context.Context, spec string, visited map[string]bool, order *[]Module) error {
	if visited[spec] {
		return nil
	}
	visited[spec] = true

	src, err := l.fetch(ctx, spec)
	if err != nil {
		return fmt.Errorf("loader: fetch %q: %w", spec, err)
	}
	res := l.normalize(src)
	for _, dep := range res.Dependencies {
		if err := l.load(ctx, dep, visited, order); err != nil {
			return err
		}
	}
	*order = append(*order, Module{Specifier: spec, Code: res.Code, Dependencies: res.Dependencies})
	return nil
}

func (l *Loader) normalize(src string) normalizer.Result {
	key := sourceKey(src)
	if res, ok := l.cache.Get(key); ok {
		return res
	}
	res := normalizer.Normalize(src)
	l.cache.Add(key, res)
	return res
}

func sourceKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
