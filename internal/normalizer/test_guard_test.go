package normalizer

import (
	"strings"
	"testing"
)

func TestGuard_ManualExportWins(t *testing.T) {
	src := "export function once(){}\nmodule.exports.once = once;"
	res := Normalize(src)
	if n := strings.Count(res.Code, "module.exports.once"); n != 1 {
		t.Fatalf("module.exports.once appears %d times:\n%s", n, res.Code)
	}
}

func TestGuard_DuplicateDeclarations(t *testing.T) {
	res := Normalize("export const a = 1;\nexport var a = 2;")
	if n := strings.Count(res.Code, "module.exports.a = a;"); n != 1 {
		t.Fatalf("duplicate export emitted:\n%s", res.Code)
	}
}

func TestGuard_PrefixNamesDoNotCollide(t *testing.T) {
	// An existing assignment to a longer name must not suppress the shorter
	// one, and vice versa.
	src := "module.exports.onceMore = 1;\nexport function once(){}"
	res := Normalize(src)
	mustContain(t, res.Code, "module.exports.once = once;")
	mustContain(t, res.Code, "module.exports.onceMore = 1;")
}

func TestGuard_WhitespaceBeforeAssignment(t *testing.T) {
	// Line-broken manual assignments still count as assignments.
	src := "export function once(){}\nmodule.exports.once\n  = once;"
	res := Normalize(src)
	if n := strings.Count(res.Code, "module.exports.once"); n != 1 {
		t.Fatalf("module.exports.once appears %d times:\n%s", n, res.Code)
	}
}

func TestGuard_MemberAccessIsNotAnAssignment(t *testing.T) {
	// Reading module.exports.once must not suppress the generated export.
	src := "export function once(){}\nlog(module.exports.once);"
	res := Normalize(src)
	mustContain(t, res.Code, "module.exports.once = once;")
}

func TestGuard_ScansWholeBuffer(t *testing.T) {
	// The manual assignment sits after the declaration; the guard still
	// finds it because the scan covers the full buffer, not just the text
	// before the declaration.
	src := "export const cfg = load();\nmodule.exports.cfg = cfg;\n"
	res := Normalize(src)
	if n := strings.Count(res.Code, "module.exports.cfg"); n != 1 {
		t.Fatalf("module.exports.cfg appears %d times:\n%s", n, res.Code)
	}
}
