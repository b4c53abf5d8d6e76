package rules

var builtins = map[string]RuleFunc{
	"no-trailing-spaces":      noTrailingSpaces,
	"no-tabs":                 noTabs,
	"no-irregular-whitespace": noIrregularWhitespace,
	"max-len":                 maxLen,
	"max-lines":               maxLines,
	"no-multiple-empty-lines": noMultipleEmptyLines,
	"eol-last":                eolLast,
	"no-debugger":             noDebugger,
	"no-console":              noConsole,
	"no-undef-env":            noUndefEnv,
}

