package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	"syl-lint/internal/fsutil"
)

// FileName is the implicit configuration file looked up next to every linted
// file and in all of its ancestors.
const FileName = ".syllintrc.yaml"

// Config is the effective rule configuration of one file.
type Config struct {
	Root    bool                   `yaml:"root"`
	Env     map[string]bool        `yaml:"env"`
	Globals map[string]bool        `yaml:"globals"`
	Rules   map[string]RuleSetting `yaml:"rules"`
}

func (c Config) Clone() Config {
	out := Config{
		Root:    c.Root,
		Env:     make(map[string]bool, len(c.Env)),
		Globals: make(map[string]bool, len(c.Globals)),
		Rules:   make(map[string]RuleSetting, len(c.Rules)),
	}
	for k, v := range c.Env {
		out.Env[k] = v
	}
	for k, v := range c.Globals {
		out.Globals[k] = v
	}
	for k, v := range c.Rules {
		out.Rules[k] = v.clone()
	}
	return out
}

// Merge returns c overlaid with over. A rule given only a severity keeps the
// options it already had.
func (c Config) Merge(over Config) Config {
	out := c.Clone()
	for k, v := range over.Env {
		out.Env[k] = v
	}
	for k, v := range over.Globals {
		out.Globals[k] = v
	}
	for id, rs := range over.Rules {
		if prev, ok := out.Rules[id]; ok && len(rs.Options) == 0 {
			rs.Options = prev.Options
		}
		out.Rules[id] = rs.clone()
	}
	return out
}

// DefaultConfig is the base layer skipped by RunOptions.Reset.
func DefaultConfig() Config {
	return Config{
		Env:     map[string]bool{},
		Globals: map[string]bool{},
		Rules: map[string]RuleSetting{
			"no-debugger":             {Severity: SeverityError},
			"no-trailing-spaces":      {Severity: SeverityError},
			"eol-last":                {Severity: SeverityError},
			"no-multiple-empty-lines": {Severity: SeverityError, Options: []any{map[string]any{"max": 2}}},
			"no-irregular-whitespace": {Severity: SeverityError},
			"no-undef-env":            {Severity: SeverityError},
			"max-len":                 {Severity: SeverityWarn, Options: []any{120}},
		},
	}
}

func Load(fsys billy.Filesystem, path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, fmt.Errorf("配置文件路径为空")
	}
	b, err := fsutil.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件失败：%w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	expanded, err := expandEnv(string(b))
	if err != nil {
		return cfg, err
	}
	if strings.TrimSpace(expanded) == "" {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件失败：%w", err)
	}
	return cfg, nil
}

var envExpr = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

func expandEnv(src string) (string, error) {
	var out strings.Builder
	last := 0
	for _, idx := range envExpr.FindAllStringSubmatchIndex(src, -1) {
		out.WriteString(src[last:idx[0]])
		name := src[idx[2]:idx[3]]
		hasDefault := idx[4] >= 0 && idx[5] >= 0
		defVal := ""
		if hasDefault && idx[6] >= 0 && idx[7] >= 0 {
			defVal = src[idx[6]:idx[7]]
		}
		if v, ok := os.LookupEnv(name); ok {
			out.WriteString(v)
		} else if hasDefault {
			out.WriteString(defVal)
		} else {
			return "", fmt.Errorf("配置中引用了未设置的环境变量：%s", name)
		}
		last = idx[1]
	}
	out.WriteString(src[last:])
	return out.String(), nil
}
