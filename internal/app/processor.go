package app

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"syl-lint/internal/config"
	"syl-lint/internal/fsutil"
	"syl-lint/internal/rules"
)

// ConfigResolver returns the effective config of a file.
type ConfigResolver interface {
	GetConfig(absPath string) (*config.Config, error)
}

// Verifier lints the text of one file. Reset is called before every Verify.
type Verifier interface {
	Reset()
	Verify(text string, cfg *config.Config, path string) []rules.Message
}

// Processor lints single files.
type Processor struct {
	fs       billy.Filesystem
	cwd      string
	configs  ConfigResolver
	verifier Verifier
	log      *zap.Logger
}

func NewProcessor(fsys billy.Filesystem, cwd string, configs ConfigResolver, verifier Verifier, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{fs: fsys, cwd: cwd, configs: configs, verifier: verifier, log: log}
}

// Process lints path. A file that does not exist yields a Result with one
// fatal message instead of an error.
func (p *Processor) Process(path string) (Result, error) {
	abs := fsutil.Abs(p.cwd, path)
	if _, err := fsutil.Stat(p.fs, abs); err != nil {
		if fsutil.IsNotExist(err) {
			return newResult(path, []rules.Message{{
				Severity: config.SeverityError,
				Message:  fmt.Sprintf("Could not find file at '%s'.", abs),
				Fatal:    true,
			}}), nil
		}
		return Result{}, err
	}

	cfg, err := p.configs.GetConfig(abs)
	if err != nil {
		return Result{}, &ConfigErr{Msg: "解析配置失败 " + abs, Err: err}
	}
	data, err := fsutil.ReadFile(p.fs, abs)
	if err != nil {
		return Result{}, err
	}

	p.verifier.Reset()
	msgs := p.verifier.Verify(string(data), cfg, abs)
	p.log.Debug("file linted", zap.String("path", abs), zap.Int("messages", len(msgs)))
	return newResult(path, msgs), nil
}
