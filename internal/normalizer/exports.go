package normalizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Export statement patterns. They are mutually exclusive, but the from-bearing
// re-export must run before the plain list form: RE2 has no lookahead, so the
// list pattern relies on the from-variants having been consumed already.
var (
	reExportDefault = regexp.MustCompile(`export\s+default\s+`)
	reExportStar    = regexp.MustCompile(`export\s*\*\s*from\s*(['"])([^'"]+)['"]\s*;?`)
	reExportFrom    = regexp.MustCompile(`export\s*\{([^}]*)\}\s*from\s*(['"])([^'"]+)['"]\s*;?`)
	reExportList    = regexp.MustCompile(`export\s*\{([^}]*)\}\s*;?`)
	reExportDecl    = regexp.MustCompile(`export\s+(function\s*\*?\s*|class\s+)([A-Za-z_$][\w$]*)`)
	reExportVar     = regexp.MustCompile(`export\s+(const|let|var)\b`)
)

// rewriteExports lowers every export form to module.exports assignments,
// keeping the exported value's own text untouched. export async function,
// export =, and TypeScript-only declarations are left as literal text.
func rewriteExports(code string, deps *depList) string {
	tmpN := 0
	nextTmp := func() string {
		name := fmt.Sprintf("__mod_%d__", tmpN)
		tmpN++
		return name
	}

	code = reExportDefault.ReplaceAllString(code, "module.exports.default = ")

	code = reExportStar.ReplaceAllStringFunc(code, func(match string) string {
		m := reExportStar.FindStringSubmatch(match)
		q, spec := m[1], m[2]
		deps.add(spec)
		// The temp is unique per occurrence so several wildcard re-exports
		// in one file cannot collide. The default binding never propagates.
		tmp := nextTmp()
		return "const " + tmp + " = require(" + q + spec + q + ");\n" +
			"for (const k in " + tmp + ") { if (k !== 'default') module.exports[k] = " + tmp + "[k]; }"
	})

	code = reExportFrom.ReplaceAllStringFunc(code, func(match string) string {
		m := reExportFrom.FindStringSubmatch(match)
		entries, q, spec := parseExportEntries(m[1]), m[2], m[3]
		deps.add(spec)
		tmp := nextTmp()
		var b strings.Builder
		b.WriteString("const " + tmp + " = require(" + q + spec + q + ");")
		for _, e := range entries {
			// "default as X" reads .default off the temp like any other name.
			b.WriteString("\nmodule.exports." + e.exported + " = " + tmp + "." + e.local + ";")
		}
		return b.String()
	})

	code = reExportList.ReplaceAllStringFunc(code, func(match string) string {
		m := reExportList.FindStringSubmatch(match)
		entries := parseExportEntries(m[1])
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, "module.exports."+e.exported+" = "+e.local+";")
		}
		return strings.Join(lines, "\n")
	})

	// Declarations keep their body; only the export keyword goes away. The
	// assignment is appended at the end of the buffer, which runs after every
	// top-level declaration has executed.
	var names []string
	code = reExportDecl.ReplaceAllStringFunc(code, func(match string) string {
		m := reExportDecl.FindStringSubmatch(match)
		names = append(names, m[2])
		return m[1] + m[2]
	})

	code, varNames := rewriteExportVars(code)
	names = append(names, varNames...)

	for _, name := range names {
		if hasExportAssignment(code, name) {
			continue
		}
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		code += "module.exports." + name + " = " + name + ";"
	}
	return code
}

type exportEntry struct{ local, exported string }

// parseExportEntries splits the interior of an export brace into entries,
// tolerating trailing commas and inline comments. "a as b" exports the local
// binding a under the name b.
func parseExportEntries(list string) []exportEntry {
	list = stripComments(list)
	var entries []exportEntry
	for _, item := range strings.Split(list, ",") {
		fields := strings.Fields(item)
		switch {
		case len(fields) == 3 && fields[1] == "as":
			entries = append(entries, exportEntry{local: fields[0], exported: fields[2]})
		case len(fields) == 1:
			entries = append(entries, exportEntry{local: fields[0], exported: fields[0]})
		}
	}
	return entries
}

// rewriteExportVars strips the export keyword from const/let/var declarations
// and reports every name the declaration binds. The declaration text itself,
// destructuring patterns included, stays verbatim.
func rewriteExportVars(code string) (string, []string) {
	var names []string
	for {
		loc := reExportVar.FindStringSubmatchIndex(code)
		if loc == nil {
			break
		}
		// Drop "export ", keep the declaration. The next search starts over
		// on the shorter buffer; this occurrence no longer matches.
		code = code[:loc[0]] + code[loc[2]:]
		after := loc[0] + (loc[3] - loc[2])

		rest := code[after:]
		i := 0
		for i < len(rest) && isSpace(rest[i]) {
			i++
		}
		names = append(names, declaratorNames(statementSpan(rest[i:]))...)
	}
	return code, names
}

// declaratorNames extracts the bound names of each declarator in a
// declaration list like "a = 1, [b] = xs, c". A declarator is either a
// simple identifier or a destructuring pattern; patterns contribute their
// bound names and simple declarators their declared identifier. Unbalanced
// pattern brackets bind nothing; the broken text surfaces downstream as a
// script error, not here.
func declaratorNames(stmt string) []string {
	stmt = stripComments(stmt)
	var names []string
	for _, seg := range splitTopLevel(stmt, ',') {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if seg[0] == '{' || seg[0] == '[' {
			if pat, ok := balancedSpan(seg); ok {
				names = append(names, patternBindings(pat)...)
			}
			continue
		}
		if m := reIdentHead.FindString(seg); m != "" {
			names = append(names, m)
		}
	}
	return names
}

// statementSpan returns the text of a declaration statement up to its
// terminating semicolon or newline. Newlines inside brackets, or after a
// character that keeps the expression open, do not terminate.
func statementSpan(s string) string {
	depth := 0
	last := byte(0)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ';':
			if depth <= 0 {
				return s[:i]
			}
		case '\n':
			if depth <= 0 && !continuesExpression(last) {
				return s[:i]
			}
		}
		if !isSpace(s[i]) {
			last = s[i]
		}
	}
	return s
}

func continuesExpression(c byte) bool {
	switch c {
	case ',', '=', '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '?', ':', '.', '(', '[', '{':
		return true
	}
	return false
}

// hasExportAssignment reports whether code already assigns to
// module.exports.name anywhere in the buffer. The scan runs over the evolving
// text, so a name appended once is never appended twice. A plain substring
// scan keeps the per-name cost flat on files with many exports; the name must
// be followed by "=" after optional whitespace, so a longer name sharing the
// prefix never matches.
func hasExportAssignment(code, name string) bool {
	needle := "module.exports." + name
	for off := 0; ; {
		i := strings.Index(code[off:], needle)
		if i < 0 {
			return false
		}
		j := off + i + len(needle)
		for j < len(code) && isSpace(code[j]) {
			j++
		}
		if j < len(code) && code[j] == '=' {
			return true
		}
		off += i + len(needle)
	}
}
