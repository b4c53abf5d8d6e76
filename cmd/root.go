package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"syl-lint/internal/app"
	"syl-lint/internal/config"
	"syl-lint/internal/logging"
	"syl-lint/internal/output"
)

type lintFlags struct {
	Config           string
	Reset            bool
	RulesDirs        []string
	NoImplicitConfig bool
	Envs             []string
	Globals          []string
	Rules            []string
	NoIgnore         bool
	IgnorePath       string
	IgnorePatterns   []string
	Exts             []string
	Format           string
	Quiet            bool
	Debug            bool
	ShowVersion      bool
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := normalizeArgs(os.Args[1:])
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var ee *ExitError
		if !errors.As(err, &ee) {
			ee = &ExitError{Code: ExitArg, Msg: err.Error(), Kind: "unknown_command"}
		}
		if ee.Msg != "" {
			reportError(os.Stdout, os.Stderr, args, ee)
		}
		return ee.Code
	}
	return ExitOK
}

func reportError(stdout, stderr io.Writer, args []string, ee *ExitError) {
	format := detectFormatFromArgs(args)
	if format == "json" || format == "ndjson" {
		writeCLIError(stdout, format, args, ee)
		return
	}
	fmt.Fprintln(stderr, ee.Msg)
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &lintFlags{}
	root := &cobra.Command{
		Use:           "syl-lint [paths...]",
		Short:         "按层级忽略文件与配置检查 JavaScript 源码",
		Long:          rootLongHelp(),
		Example:       rootExampleHelp(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			if len(args) == 0 {
				_ = cmd.Help()
				return &ExitError{Code: ExitArg, Msg: "还没传输入路径，至少要给一个文件或目录", Kind: "arg_missing_paths"}
			}
			return runLint(cmd, stdout, stderr, flags, args)
		},
	}
	root.CompletionOptions.HiddenDefaultCmd = true
	bindFlags(root, flags)

	internalLintCmd := &cobra.Command{
		Use:           "__lint [paths...]",
		Short:         "internal lint entry",
		Hidden:        true,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			return runLint(cmd, stdout, stderr, flags, args)
		},
	}
	root.AddCommand(internalLintCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(stdout)
		},
	}
	root.AddCommand(versionCmd)
	return root
}

func bindFlags(cmd *cobra.Command, flags *lintFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.Config, "config", "c", "", "额外的 YAML 配置文件，优先级高于 .syllintrc.yaml")
	pf.BoolVar(&flags.Reset, "reset", false, "不加载内置默认规则")
	pf.StringSliceVar(&flags.RulesDirs, "rulesdir", nil, "自定义模式规则目录（*.yaml），可重复")
	pf.BoolVar(&flags.NoImplicitConfig, "no-implicit-config", false, "不查找 .syllintrc.yaml")
	pf.StringSliceVar(&flags.Envs, "env", nil, "启用环境：browser/node/mocha/jquery，逗号分隔或重复")
	pf.StringSliceVar(&flags.Globals, "global", nil, "声明全局变量（name 或 name:false），逗号分隔或重复")
	pf.StringArrayVar(&flags.Rules, "rule", nil, "覆盖规则，YAML 写法，如 'max-len: [2, 100]'，可重复")
	pf.BoolVar(&flags.NoIgnore, "no-ignore", false, "禁用忽略文件与默认忽略模式")
	pf.StringVar(&flags.IgnorePath, "ignore-path", "", "指定忽略文件，替代逐级查找 .syllintignore")
	pf.StringArrayVar(&flags.IgnorePatterns, "ignore-pattern", nil, "额外忽略模式（相对当前目录），可重复")
	pf.StringSliceVar(&flags.Exts, "ext", nil, "目录扫描时检查的扩展名（默认 .js）")
	pf.StringVarP(&flags.Format, "format", "f", "stylish", "输出格式：stylish/json/ndjson")
	pf.BoolVar(&flags.Quiet, "quiet", false, "只报告 error，忽略 warning")
	pf.BoolVar(&flags.Debug, "debug", false, "输出调试日志到 stderr")
	pf.BoolVarP(&flags.ShowVersion, "version", "v", false, "显示版本信息")
}

// runOptions converts the flags the user actually set. Unset flags stay
// zero so the env overlay and defaults show through.
func (f *lintFlags) runOptions(cmd *cobra.Command) (config.RunOptions, error) {
	rules, err := config.ParseRuleFlags(f.Rules)
	if err != nil {
		return config.RunOptions{}, err
	}
	o := config.RunOptions{
		ConfigFile:     f.Config,
		Reset:          f.Reset,
		RulePaths:      f.RulesDirs,
		Envs:           f.Envs,
		Globals:        f.Globals,
		Rules:          rules,
		IgnorePath:     f.IgnorePath,
		IgnorePatterns: f.IgnorePatterns,
		Extensions:     f.Exts,
	}
	if cmd.Flags().Changed("no-ignore") {
		o.Ignore = config.Bool(!f.NoIgnore)
	}
	if cmd.Flags().Changed("no-implicit-config") {
		o.UseImplicitConfig = config.Bool(!f.NoImplicitConfig)
	}
	return o, nil
}

func runLint(cmd *cobra.Command, stdout, stderr io.Writer, flags *lintFlags, args []string) error {
	if len(args) == 0 {
		return &ExitError{Code: ExitArg, Msg: "还没传输入路径，至少要给一个文件或目录", Kind: "arg_missing_paths"}
	}
	if err := output.ValidateFormat(flags.Format); err != nil {
		return &ExitError{Code: ExitArg, Msg: err.Error(), Kind: "invalid_output_format"}
	}
	cliOpts, err := flags.runOptions(cmd)
	if err != nil {
		return &ExitError{Code: ExitArg, Msg: err.Error(), Kind: "invalid_rule_flag"}
	}
	envOpts, _, err := config.LoadRunOptionsFromEnv(config.EnvPrefix)
	if err != nil {
		return &ExitError{Code: ExitConfig, Msg: err.Error(), Kind: "env_invalid"}
	}

	log, err := logging.New(flags.Debug)
	if err != nil {
		return &ExitError{Code: ExitInternal, Msg: fmt.Sprintf("初始化日志失败：%v", err)}
	}
	defer func() { _ = log.Sync() }()

	engine, err := app.NewEngine(envOpts.Merge(cliOpts), app.WithLogger(log))
	if err != nil {
		return toExitError(err)
	}
	results, err := engine.ExecuteOnFiles(cmd.Context(), args)
	if err != nil {
		log.Debug("lint failed", zap.Error(err))
		return toExitError(err)
	}

	if flags.Quiet {
		results = app.ErrorsOnly(results)
	}
	if werr := output.Write(stdout, flags.Format, results, output.Options{Color: output.IsTerminal(stdout)}); werr != nil {
		return &ExitError{Code: ExitInternal, Msg: fmt.Sprintf("输出结果失败：%v", werr), Kind: "output_write_failed"}
	}

	s := app.Summarize(results)
	switch {
	case s.Fatal > 0:
		return &ExitError{Code: ExitInput}
	case s.Errors > 0:
		return &ExitError{Code: ExitViolation}
	}
	return nil
}

func toExitError(err error) *ExitError {
	var (
		argErr *app.ArgErr
		cfgErr *app.ConfigErr
		fsErr  *app.FilesystemError
	)
	switch {
	case errors.As(err, &argErr):
		return &ExitError{Code: ExitArg, Msg: err.Error(), Kind: "invalid_args"}
	case errors.As(err, &cfgErr):
		return &ExitError{Code: ExitConfig, Msg: err.Error(), Kind: "config_invalid"}
	case errors.As(err, &fsErr):
		return &ExitError{Code: ExitInput, Msg: err.Error(), Kind: "input_unreadable", Path: fsErr.Path}
	case errors.Is(err, context.Canceled):
		return &ExitError{Code: ExitInternal, Msg: "已取消", Kind: "cancelled"}
	default:
		return &ExitError{Code: ExitInternal, Msg: err.Error(), Kind: "internal_error"}
	}
}

func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	first := args[0]
	switch first {
	case "version", "help", "completion", "__lint":
		return args
	}
	if strings.HasPrefix(first, "-") {
		return args
	}
	return append([]string{"__lint"}, args...)
}
