package config

import (
	"path/filepath"
	"strings"
)

// RunOptions configures one engine. It is read-only once handed to the
// engine.
type RunOptions struct {
	ConfigFile        string
	Reset             bool
	RulePaths         []string
	UseImplicitConfig *bool
	Envs              []string
	Globals           []string
	Rules             map[string]RuleSetting
	Ignore            *bool
	IgnorePath        string
	IgnorePatterns    []string
	Extensions        []string
	Cwd               string
}

func Bool(v bool) *bool { return &v }

func DefaultRunOptions() RunOptions {
	return RunOptions{
		UseImplicitConfig: Bool(true),
		Ignore:            Bool(true),
		Extensions:        []string{".js"},
		Rules:             map[string]RuleSetting{},
	}
}

// WithDefaults layers opts over DefaultRunOptions and normalizes the
// result. cwd fills Cwd when the caller left it empty.
func WithDefaults(opts RunOptions, cwd string) RunOptions {
	out := DefaultRunOptions().Merge(opts)
	if out.Cwd == "" {
		out.Cwd = cwd
	}
	out.Cwd = filepath.Clean(out.Cwd)
	out.Extensions = NormalizeExtensions(out.Extensions)
	if out.ConfigFile != "" {
		out.ConfigFile = abs(out.Cwd, out.ConfigFile)
	}
	if out.IgnorePath != "" {
		out.IgnorePath = abs(out.Cwd, out.IgnorePath)
	}
	for i, p := range out.RulePaths {
		out.RulePaths[i] = abs(out.Cwd, p)
	}
	return out
}

// Merge returns o overlaid with every field over sets. Slices replace,
// rule maps merge per id.
func (o RunOptions) Merge(over RunOptions) RunOptions {
	out := o
	out.RulePaths = append([]string(nil), o.RulePaths...)
	out.Envs = append([]string(nil), o.Envs...)
	out.Globals = append([]string(nil), o.Globals...)
	out.IgnorePatterns = append([]string(nil), o.IgnorePatterns...)
	out.Extensions = append([]string(nil), o.Extensions...)
	out.Rules = make(map[string]RuleSetting, len(o.Rules)+len(over.Rules))
	for k, v := range o.Rules {
		out.Rules[k] = v
	}

	if over.ConfigFile != "" {
		out.ConfigFile = over.ConfigFile
	}
	if over.Reset {
		out.Reset = true
	}
	if len(over.RulePaths) > 0 {
		out.RulePaths = append([]string(nil), over.RulePaths...)
	}
	if over.UseImplicitConfig != nil {
		out.UseImplicitConfig = Bool(*over.UseImplicitConfig)
	}
	if len(over.Envs) > 0 {
		out.Envs = append([]string(nil), over.Envs...)
	}
	if len(over.Globals) > 0 {
		out.Globals = append([]string(nil), over.Globals...)
	}
	for k, v := range over.Rules {
		out.Rules[k] = v
	}
	if over.Ignore != nil {
		out.Ignore = Bool(*over.Ignore)
	}
	if over.IgnorePath != "" {
		out.IgnorePath = over.IgnorePath
	}
	if len(over.IgnorePatterns) > 0 {
		out.IgnorePatterns = append([]string(nil), over.IgnorePatterns...)
	}
	if len(over.Extensions) > 0 {
		out.Extensions = append([]string(nil), over.Extensions...)
	}
	if over.Cwd != "" {
		out.Cwd = over.Cwd
	}
	return out
}

func (o RunOptions) IgnoreEnabled() bool {
	return o.Ignore == nil || *o.Ignore
}

func (o RunOptions) ImplicitConfig() bool {
	return o.UseImplicitConfig == nil || *o.UseImplicitConfig
}

func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := map[string]bool{}
	for _, e := range exts {
		for _, part := range strings.Split(e, ",") {
			v := strings.ToLower(strings.TrimSpace(part))
			if v == "" {
				continue
			}
			if !strings.HasPrefix(v, ".") {
				v = "." + v
			}
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func abs(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, p)
}
