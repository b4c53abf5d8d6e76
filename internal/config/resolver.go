package config

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"syl-lint/internal/fsutil"
)

// Resolver layers, lowest first: defaults, implicit config files from the
// root down, the explicit config file, command-line overrides.
type Resolver struct {
	fs       billy.Filesystem
	opts     RunOptions
	base     Config
	explicit *Config
	override Config
	chain    map[string]Config
	final    map[string]*Config
}

func NewResolver(fsys billy.Filesystem, opts RunOptions) *Resolver {
	base := Config{}
	if !opts.Reset {
		base = DefaultConfig()
	}
	return &Resolver{
		fs:       fsys,
		opts:     opts,
		base:     base.Clone(),
		override: overrideConfig(opts),
		chain:    map[string]Config{},
		final:    map[string]*Config{},
	}
}

// GetConfig returns the effective config for absPath. The returned value is
// shared; callers must not modify it.
func (r *Resolver) GetConfig(absPath string) (*Config, error) {
	dir := filepath.Dir(absPath)
	if c, ok := r.final[dir]; ok {
		return c, nil
	}
	cfg := r.base.Clone()
	if r.opts.ImplicitConfig() {
		implicit, err := r.dirConfig(dir)
		if err != nil {
			return nil, err
		}
		cfg = implicit
	}
	if r.opts.ConfigFile != "" {
		if r.explicit == nil {
			c, err := Load(r.fs, r.opts.ConfigFile)
			if err != nil {
				return nil, err
			}
			r.explicit = &c
		}
		cfg = cfg.Merge(*r.explicit)
	}
	cfg = cfg.Merge(r.override)
	r.final[dir] = &cfg
	return &cfg, nil
}

func (r *Resolver) dirConfig(dir string) (Config, error) {
	if c, ok := r.chain[dir]; ok {
		return c, nil
	}
	own, found, err := r.loadLocal(dir)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	parent := filepath.Dir(dir)
	switch {
	case found && own.Root:
		cfg = r.base.Merge(own)
	case parent == dir:
		cfg = r.base.Clone()
		if found {
			cfg = cfg.Merge(own)
		}
	default:
		up, err := r.dirConfig(parent)
		if err != nil {
			return Config{}, err
		}
		cfg = up
		if found {
			cfg = cfg.Merge(own)
		}
	}
	r.chain[dir] = cfg
	return cfg, nil
}

func (r *Resolver) loadLocal(dir string) (Config, bool, error) {
	p := filepath.Join(dir, FileName)
	ok, err := fsutil.Probe(r.fs, p)
	if err != nil || !ok {
		return Config{}, false, err
	}
	c, err := Load(r.fs, p)
	if err != nil {
		return Config{}, false, err
	}
	return c, true, nil
}

func overrideConfig(opts RunOptions) Config {
	c := Config{
		Env:     map[string]bool{},
		Globals: map[string]bool{},
		Rules:   map[string]RuleSetting{},
	}
	for _, e := range opts.Envs {
		for _, name := range splitCSV(e) {
			c.Env[name] = true
		}
	}
	for _, g := range opts.Globals {
		for _, item := range splitCSV(g) {
			name, val, hasVal := strings.Cut(item, ":")
			enabled := true
			if hasVal {
				if b, err := parseBool(val); err == nil {
					enabled = b
				}
			}
			c.Globals[strings.TrimSpace(name)] = enabled
		}
	}
	for id, rs := range opts.Rules {
		c.Rules[id] = rs
	}
	return c
}
