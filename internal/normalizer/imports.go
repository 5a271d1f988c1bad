package normalizer

import "regexp"

// Import statement patterns, applied most-specific first so the combined
// default+named form is never split up by the default-only pattern. The
// closing quote is matched loosely because RE2 has no backreferences; the
// character class already stops the specifier at the first quote.
var (
	reImportCombined  = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}\s*from\s*(['"])([^'"]+)['"]`)
	reImportNamed     = regexp.MustCompile(`import\s*\{([^}]*)\}\s*from\s*(['"])([^'"]+)['"]`)
	reImportNamespace = regexp.MustCompile(`import\s*\*\s*as\s+([A-Za-z_$][\w$]*)\s+from\s*(['"])([^'"]+)['"]`)
	reImportDefault   = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s+from\s*(['"])([^'"]+)['"]`)
	reImportBare      = regexp.MustCompile(`import\s*(['"])([^'"]+)['"]`)

	// foo as bar -> foo: bar inside a named-import brace. Everything else in
	// the brace, including newlines, is kept byte for byte.
	reAsRename = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s+as\s+([A-Za-z_$][\w$]*)`)
)

// rewriteImports lowers every import statement form to a require binding and
// records the specifiers. Quote characters are preserved from the source.
func rewriteImports(code string, deps *depList) string {
	code = reImportCombined.ReplaceAllStringFunc(code, func(match string) string {
		m := reImportCombined.FindStringSubmatch(match)
		name, names, q, spec := m[1], m[2], m[3], m[4]
		deps.add(spec)
		// One require, all names bound: the named bindings destructure the
		// default binding, which holds the whole module object.
		return "const " + name + " = require(" + q + spec + q + "), {" + reAsRename.ReplaceAllString(names, "$1: $2") + "} = " + name
	})

	code = reImportNamed.ReplaceAllStringFunc(code, func(match string) string {
		m := reImportNamed.FindStringSubmatch(match)
		names, q, spec := m[1], m[2], m[3]
		deps.add(spec)
		return "const {" + reAsRename.ReplaceAllString(names, "$1: $2") + "} = require(" + q + spec + q + ")"
	})

	code = reImportNamespace.ReplaceAllStringFunc(code, func(match string) string {
		m := reImportNamespace.FindStringSubmatch(match)
		name, q, spec := m[1], m[2], m[3]
		deps.add(spec)
		// The module object stands in for the namespace.
		return "const " + name + " = require(" + q + spec + q + ")"
	})

	code = reImportDefault.ReplaceAllStringFunc(code, func(match string) string {
		m := reImportDefault.FindStringSubmatch(match)
		name, q, spec := m[1], m[2], m[3]
		deps.add(spec)
		return "const " + name + " = require(" + q + spec + q + ")"
	})

	code = reImportBare.ReplaceAllStringFunc(code, func(match string) string {
		m := reImportBare.FindStringSubmatch(match)
		q, spec := m[1], m[2]
		deps.add(spec)
		return "require(" + q + spec + q + ")"
	})

	return code
}
