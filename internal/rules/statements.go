package rules

import (
	"regexp"
	"sort"
	"strings"

	"syl-lint/internal/textutil"
)

var (
	debuggerRegex = regexp.MustCompile(`\bdebugger\b`)
	consoleRegex  = regexp.MustCompile(`\bconsole\s*\.`)
	declRegex     = regexp.MustCompile(`\b(?:var|let|const|function|class)\s+([A-Za-z_$][\w$]*)`)
	identRegex    = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

	// binding lists: function and method parameters, arrow parameters and
	// destructuring declarations
	paramsRegex      = regexp.MustCompile(`([A-Za-z_$][\w$]*)?\s*\(([^()]*)\)\s*(?:\{|=>)`)
	arrowParamRegex  = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*=>`)
	destructureRegex = regexp.MustCompile(`\b(?:var|let|const)\s*(?:\{([^}]*)\}|\[([^\]]*)\])`)
)

// statement keywords whose parenthesized part is a condition, not a binding list
var conditionKeywords = map[string]bool{"if": true, "while": true, "for": true, "switch": true, "with": true}

var envGlobals = map[string][]string{
	"browser": {"window", "document", "navigator", "location", "localStorage", "sessionStorage", "alert", "XMLHttpRequest"},
	"node":    {"require", "module", "exports", "process", "__dirname", "__filename", "Buffer", "global"},
	"mocha":   {"describe", "it", "before", "after", "beforeEach", "afterEach", "context"},
	"jquery":  {"$", "jQuery"},
}

var identEnv = func() map[string]string {
	out := map[string]string{}
	envs := make([]string, 0, len(envGlobals))
	for env := range envGlobals {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		for _, id := range envGlobals[env] {
			if _, ok := out[id]; !ok {
				out[id] = env
			}
		}
	}
	return out
}()

func noDebugger(ctx *Context) {
	for i, code := range ctx.Code {
		for _, idx := range debuggerRegex.FindAllStringIndex(code, -1) {
			ctx.Report(i+1, textutil.RuneColumnAtByteOffset(ctx.Lines[i], idx[0]), "Unexpected 'debugger' statement.")
		}
	}
}

func noConsole(ctx *Context) {
	for i, code := range ctx.Code {
		for _, idx := range consoleRegex.FindAllStringIndex(code, -1) {
			if idx[0] > 0 && code[idx[0]-1] == '.' {
				continue
			}
			ctx.Report(i+1, textutil.RuneColumnAtByteOffset(ctx.Lines[i], idx[0]), "Unexpected console statement.")
		}
	}
}

// noUndefEnv flags identifiers owned by an environment that is not enabled,
// unless they are declared as globals or in the file itself.
func noUndefEnv(ctx *Context) {
	declared := declaredNames(strings.Join(ctx.Code, "\n"))
	for i, code := range ctx.Code {
		for _, idx := range identRegex.FindAllStringIndex(code, -1) {
			name := code[idx[0]:idx[1]]
			env, ok := identEnv[name]
			if !ok || ctx.Config.Env[env] || declared[name] {
				continue
			}
			if _, ok := ctx.Config.Globals[name]; ok {
				continue
			}
			if isPropertyAccess(code, idx[0]) || isObjectKey(code, idx[1]) {
				continue
			}
			ctx.Report(i+1, textutil.RuneColumnAtByteOffset(ctx.Lines[i], idx[0]), "'%s' is not defined.", name)
		}
	}
}

// declaredNames collects every name the code binds itself. Anything inside a
// binding list counts, so default values and renamed keys are declared too.
func declaredNames(code string) map[string]bool {
	declared := map[string]bool{}
	addAll := func(list string) {
		for _, id := range identRegex.FindAllString(list, -1) {
			declared[id] = true
		}
	}
	for _, m := range declRegex.FindAllStringSubmatch(code, -1) {
		declared[m[1]] = true
	}
	for _, m := range paramsRegex.FindAllStringSubmatch(code, -1) {
		if conditionKeywords[m[1]] {
			continue
		}
		addAll(m[2])
	}
	for _, m := range arrowParamRegex.FindAllStringSubmatch(code, -1) {
		declared[m[1]] = true
	}
	for _, m := range destructureRegex.FindAllStringSubmatch(code, -1) {
		addAll(m[1] + " " + m[2])
	}
	return declared
}

func isPropertyAccess(code string, start int) bool {
	for j := start - 1; j >= 0; j-- {
		switch code[j] {
		case ' ', '\t':
			continue
		case '.':
			return true
		default:
			return false
		}
	}
	return false
}

func isObjectKey(code string, end int) bool {
	for j := end; j < len(code); j++ {
		switch code[j] {
		case ' ', '\t':
			continue
		case ':':
			return j+1 >= len(code) || code[j+1] != ':'
		default:
			return false
		}
	}
	return false
}
