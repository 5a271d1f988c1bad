package normalizer

import "regexp"

var (
	// import('x') is the one ES construct with no CommonJS spelling. All
	// dependencies are resolved ahead of evaluation, so wrapping the
	// synchronous require in a resolved promise keeps await/then call sites
	// working.
	reDynamicImport = regexp.MustCompile(`import\s*\(\s*(['"])([^'"]+)['"]\s*\)`)

	// Literal require calls are already sandbox-native and stay verbatim;
	// they are only scanned for specifiers.
	reRequireCall = regexp.MustCompile(`require\s*\(\s*(['"])([^'"]+)['"]\s*\)`)
)

func rewriteDynamicImports(code string, deps *depList) string {
	return reDynamicImport.ReplaceAllStringFunc(code, func(match string) string {
		m := reDynamicImport.FindStringSubmatch(match)
		q, spec := m[1], m[2]
		deps.add(spec)
		return "Promise.resolve(require(" + q + spec + q + "))"
	})
}

// scanRequires harvests specifiers from require calls without touching the
// text. This also re-sees the calls generated by the import pass; the dep
// list ignores the repeats.
func scanRequires(code string, deps *depList) {
	for _, m := range reRequireCall.FindAllStringSubmatch(code, -1) {
		deps.add(m[2])
	}
}
