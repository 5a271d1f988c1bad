// Package normalizer rewrites ES module syntax into the require/module.exports
// form the sandbox executes, and extracts the module specifiers a source file
// references so the host can resolve them before evaluation.
//
// The rewriting is pattern based, not an AST walk. Matches inside string
// literals, comments, and regex literals are rewritten as if they were live
// code; that tradeoff keeps the transform cheap in a browser-facing runtime
// with no bundler. The package tests pin this behavior.
package normalizer

// Result is the output of Normalize. Code is rewritten text containing only
// constructs the sandbox understands; Dependencies lists every specifier the
// code references, in order of first match, deduplicated.
type Result struct {
	Code         string
	Dependencies []string
}

// Normalize rewrites import/export syntax in source and collects the module
// specifiers it references. It never fails: unsupported forms (export async
// function, export =, TypeScript-only declarations) pass through verbatim and
// surface later, if at all, as ordinary script errors in the sandbox.
func Normalize(source string) Result {
	deps := newDepList()
	code := rewriteImports(source, deps)
	code = rewriteDynamicImports(code, deps)
	scanRequires(code, deps)
	code = rewriteExports(code, deps)
	return Result{Code: code, Dependencies: deps.list}
}

// depList records specifiers on first match. Later passes re-see require
// calls generated by earlier ones, so adds are idempotent.
type depList struct {
	seen map[string]bool
	list []string
}

func newDepList() *depList {
	return &depList{seen: make(map[string]bool)}
}

func (d *depList) add(spec string) {
	if d.seen[spec] {
		return
	}
	d.seen[spec] = true
	d.list = append(d.list, spec)
}
