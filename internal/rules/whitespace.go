package rules

import (
	"strings"
	"unicode/utf8"

	"syl-lint/internal/textutil"
)

var irregularWhitespace = map[rune]string{
	'\u000B': "U+000B",
	'\u000C': "U+000C",
	'\u0085': "U+0085",
	'\u00A0': "U+00A0",
	'\u1680': "U+1680",
	'\u2000': "U+2000",
	'\u2001': "U+2001",
	'\u2002': "U+2002",
	'\u2003': "U+2003",
	'\u2004': "U+2004",
	'\u2005': "U+2005",
	'\u2006': "U+2006",
	'\u2007': "U+2007",
	'\u2008': "U+2008",
	'\u2009': "U+2009",
	'\u200A': "U+200A",
	'\u200B': "U+200B",
	'\u2028': "U+2028",
	'\u2029': "U+2029",
	'\u202F': "U+202F",
	'\u205F': "U+205F",
	'\u3000': "U+3000",
	'\uFEFF': "U+FEFF",
}

func noTrailingSpaces(ctx *Context) {
	for i, ln := range ctx.Lines {
		j := len(ln)
		for j > 0 {
			r, size := utf8.DecodeLastRuneInString(ln[:j])
			if r != ' ' && r != '\t' {
				break
			}
			j -= size
		}
		if j == len(ln) {
			continue
		}
		ctx.Report(i+1, utf8.RuneCountInString(ln[:j])+1, "Trailing spaces not allowed.")
	}
}

func noTabs(ctx *Context) {
	for i, ln := range ctx.Lines {
		for b := 0; b < len(ln); {
			r, size := utf8.DecodeRuneInString(ln[b:])
			if r == '\t' {
				ctx.Report(i+1, utf8.RuneCountInString(ln[:b])+1, "Unexpected tab character.")
			}
			b += size
		}
	}
}

func noIrregularWhitespace(ctx *Context) {
	for i, ln := range ctx.Lines {
		for b := 0; b < len(ln); {
			r, size := utf8.DecodeRuneInString(ln[b:])
			if code, ok := irregularWhitespace[r]; ok {
				ctx.Report(i+1, utf8.RuneCountInString(ln[:b])+1, "Irregular whitespace (%s) not allowed.", code)
			}
			b += size
		}
	}
}

func maxLen(ctx *Context) {
	limit := ctx.Setting.IntOption(0, 80)
	for i, ln := range ctx.Lines {
		w := textutil.DisplayWidth(ln)
		if w <= limit {
			continue
		}
		ctx.Report(i+1, 1, "This line has a length of %d. Maximum allowed is %d.", w, limit)
	}
}

func maxLines(ctx *Context) {
	limit := ctx.Setting.IntOption(0, 300)
	if len(ctx.Lines) <= limit {
		return
	}
	ctx.Report(limit+1, 1, "File has too many lines (%d). Maximum allowed is %d.", len(ctx.Lines), limit)
}

func noMultipleEmptyLines(ctx *Context) {
	limit := ctx.Setting.MapIntOption(0, "max", 2)
	blank := 0
	for i, ln := range ctx.Lines {
		if strings.TrimSpace(ln) == "" {
			blank++
		} else {
			blank = 0
		}
		if blank == limit+1 {
			ctx.Report(i+1, 1, "More than %d blank lines not allowed.", limit)
		}
	}
}

func eolLast(ctx *Context) {
	if ctx.Text == "" || textutil.EndsWithNewline(ctx.Text) {
		return
	}
	last := ctx.Lines[len(ctx.Lines)-1]
	ctx.Report(len(ctx.Lines), utf8.RuneCountInString(last)+1, "Newline required at end of file but not found.")
}
