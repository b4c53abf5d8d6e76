package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	"syl-lint/internal/fsutil"
	"syl-lint/internal/textutil"
)

// PatternRule is a regex rule loaded from a rules directory. A file may hold
// several YAML documents, one rule each.
type PatternRule struct {
	ID            string `yaml:"id"`
	Pattern       string `yaml:"pattern"`
	Message       string `yaml:"message"`
	CaseSensitive *bool  `yaml:"case_sensitive"`
}

func (p PatternRule) compile() (RuleFunc, error) {
	caseSensitive := true
	if p.CaseSensitive != nil {
		caseSensitive = *p.CaseSensitive
	}
	rx, err := textutil.CompilePattern(p.Pattern, caseSensitive)
	if err != nil {
		return nil, err
	}
	msg := p.Message
	if strings.TrimSpace(msg) == "" {
		msg = fmt.Sprintf("Unexpected match of pattern '%s'.", p.Pattern)
	}
	return func(ctx *Context) {
		for i, ln := range ctx.Lines {
			for _, idx := range rx.FindAllStringIndex(ln, -1) {
				ctx.Report(i+1, textutil.RuneColumnAtByteOffset(ln, idx[0]), "%s", msg)
			}
		}
	}, nil
}

// LoadRuleDir defines every pattern rule found in the *.yaml and *.yml files
// of dir, in file name order.
func (l *Linter) LoadRuleDir(fsys billy.Filesystem, dir string) error {
	entries, err := fsutil.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		p := filepath.Join(dir, name)
		b, err := fsutil.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		defs, err := parsePatternRules(b)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		for _, d := range defs {
			fn, err := d.compile()
			if err != nil {
				return fmt.Errorf("%s: 规则 %s 编译失败：%w", p, d.ID, err)
			}
			l.Define(d.ID, fn)
		}
	}
	return nil
}

func parsePatternRules(b []byte) ([]PatternRule, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	out := make([]PatternRule, 0)
	for {
		var pr PatternRule
		err := dec.Decode(&pr)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析规则文件失败：%w", err)
		}
		if strings.TrimSpace(pr.ID) == "" || strings.TrimSpace(pr.Pattern) == "" {
			return nil, fmt.Errorf("规则缺少 id 或 pattern")
		}
		out = append(out, pr)
	}
	return out, nil
}
