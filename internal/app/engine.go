package app

import (
	"context"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"syl-lint/internal/config"
	"syl-lint/internal/fsutil"
	"syl-lint/internal/ignore"
	"syl-lint/internal/rules"
	"syl-lint/internal/scan"
)

type Engine struct {
	opts     config.RunOptions
	fs       billy.Filesystem
	verifier Verifier
	log      *zap.Logger
}

type EngineOption func(*Engine)

func WithLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithVerifier replaces the built-in linter. The verifier is shared by every
// run of the engine.
func WithVerifier(v Verifier) EngineOption {
	return func(e *Engine) { e.verifier = v }
}

func WithFilesystem(fsys billy.Filesystem) EngineOption {
	return func(e *Engine) { e.fs = fsys }
}

func NewEngine(opts config.RunOptions, options ...EngineOption) (*Engine, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &ArgErr{Msg: "无法获取当前目录：" + err.Error()}
		}
		cwd = wd
	}
	e := &Engine{
		opts: config.WithDefaults(opts, cwd),
		log:  zap.NewNop(),
	}
	for _, o := range options {
		o(e)
	}
	if e.fs == nil {
		e.fs = fsutil.NewOS()
	}
	return e, nil
}

func (e *Engine) Options() config.RunOptions {
	return e.opts
}

// ExecuteOnFiles lints every target in order and returns one Result per
// linted file, or the first hard error and no results.
func (e *Engine) ExecuteOnFiles(ctx context.Context, targets []string) ([]Result, error) {
	log := e.log.With(zap.String("run_id", uuid.NewString()))
	log.Debug("run started", zap.Strings("targets", targets), zap.String("cwd", e.opts.Cwd))

	d, err := e.newDispatcher(log)
	if err != nil {
		log.Debug("run aborted", zap.Error(err))
		return nil, err
	}

	results := make([]Result, 0)
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rs, err := d.Dispatch(ctx, t)
		if err != nil {
			log.Debug("run aborted", zap.String("target", t), zap.Error(err))
			return nil, err
		}
		results = append(results, rs...)
	}
	log.Debug("run finished", zap.Int("results", len(results)))
	return results, nil
}

func (e *Engine) newDispatcher(log *zap.Logger) (*Dispatcher, error) {
	locOpts := []ignore.LocatorOption{ignore.WithLogger(log)}
	if e.opts.IgnorePath != "" {
		locOpts = append(locOpts, ignore.WithOverride(e.opts.IgnorePath, e.opts.Cwd))
	}
	locator := ignore.NewLocator(e.fs, locOpts...)

	verifier := e.verifier
	if verifier == nil {
		l := rules.NewLinter()
		for _, dir := range e.opts.RulePaths {
			if err := l.LoadRuleDir(e.fs, dir); err != nil {
				return nil, &ConfigErr{Msg: "加载规则目录失败 " + dir, Err: err}
			}
		}
		verifier = l
	}

	walker := scan.NewWalker(e.fs, locator, scan.Options{
		CWD:            e.opts.Cwd,
		Extensions:     e.opts.Extensions,
		IgnoreEnabled:  e.opts.IgnoreEnabled(),
		IgnorePatterns: e.opts.IgnorePatterns,
	}, log)
	resolver := config.NewResolver(e.fs, e.opts)
	processor := NewProcessor(e.fs, e.opts.Cwd, resolver, verifier, log)
	return NewDispatcher(e.fs, e.opts.Cwd, walker, processor), nil
}
