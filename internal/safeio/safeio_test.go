package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRoot_RequiresDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewRoot(file); err == nil {
		t.Fatal("expected error for non-directory root")
	}
	if _, err := NewRoot(""); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestReadFile_InsideRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "a.js"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := NewRoot(dir)
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	b, err := r.ReadFile("sub/a.js")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "hi" {
		t.Fatalf("got %q", b)
	}
}

func TestResolve_RejectsEscapes(t *testing.T) {
	r, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	for _, bad := range []string{"../outside", "..", "/etc/passwd", ""} {
		if _, err := r.ReadFile(bad); err == nil {
			t.Fatalf("path %q was not rejected", bad)
		}
	}
	// Interior ".." that stays inside the root is fine after cleaning.
	if err := r.WriteFileAtomic("a/../b.txt", []byte("ok")); err != nil {
		t.Fatalf("clean interior path rejected: %v", err)
	}
}

func TestWriteFileAtomic_Roundtrip(t *testing.T) {
	r, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("NewRoot: %v", err)
	}
	if err := r.WriteFileAtomic("deep/nested/out.js", []byte("code")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	b, err := r.ReadFile("deep/nested/out.js")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "code" {
		t.Fatalf("got %q", b)
	}
	// Overwrite must replace, not append.
	if err := r.WriteFileAtomic("deep/nested/out.js", []byte("v2")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	b, _ = r.ReadFile("deep/nested/out.js")
	if string(b) != "v2" {
		t.Fatalf("after rewrite got %q", b)
	}
	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(r.Dir(), "deep", "nested"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover files: %v", entries)
	}
}
