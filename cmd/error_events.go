package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type cliErrorHint struct {
	NextAction  string
	FixExample  string
	DocKey      string
	Recoverable bool
}

// writeCLIError reports a failed run as events for the machine-readable
// formats: meta, error, summary.
func writeCLIError(w io.Writer, format string, args []string, ee *ExitError) {
	h := cliHintByCode(ee.Kind)
	events := []map[string]any{
		{
			"type":          "meta",
			"tool":          "syl-lint",
			"version":       Version,
			"args":          args,
			"output_format": format,
		},
		{
			"type":        "error",
			"code":        ee.Kind,
			"category":    ee.category(),
			"path":        ee.Path,
			"detail":      ee.Msg,
			"next_action": h.NextAction,
			"fix_example": h.FixExample,
			"doc_key":     h.DocKey,
			"recoverable": h.Recoverable,
		},
		{
			"type":       "summary",
			"files":      0,
			"errorCount": 1,
			"exit_code":  ee.Code,
		},
	}
	if format == "json" {
		b, err := json.MarshalIndent(map[string]any{"events": events}, "", "  ")
		if err != nil {
			return
		}
		_, _ = fmt.Fprintln(w, string(b))
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return
		}
	}
}

func detectFormatFromArgs(args []string) string {
	format := "stylish"
	for i := 0; i < len(args); i++ {
		a := strings.TrimSpace(args[i])
		if a == "--format" || a == "-f" {
			if i+1 < len(args) {
				return args[i+1]
			}
			continue
		}
		if strings.HasPrefix(a, "--format=") {
			return strings.TrimPrefix(a, "--format=")
		}
	}
	return format
}

func cliHintByCode(code string) cliErrorHint {
	switch code {
	case "arg_missing_paths":
		return cliErrorHint{
			NextAction:  "至少传一个文件或目录路径",
			FixExample:  "syl-lint src/",
			DocKey:      "arg.missing_paths",
			Recoverable: true,
		}
	case "invalid_output_format":
		return cliErrorHint{
			NextAction:  "把 --format 改为 stylish、json 或 ndjson",
			FixExample:  "syl-lint src/ --format ndjson",
			DocKey:      "arg.invalid_output_format",
			Recoverable: true,
		}
	case "invalid_rule_flag":
		return cliErrorHint{
			NextAction:  "--rule 使用 YAML 写法：规则名: 级别 或 规则名: [级别, 选项]",
			FixExample:  "syl-lint src/ --rule 'max-len: [2, 100]'",
			DocKey:      "arg.invalid_rule_flag",
			Recoverable: true,
		}
	case "env_invalid":
		return cliErrorHint{
			NextAction:  "修正 SYL_LINT_* 环境变量的取值后重试",
			FixExample:  "SYL_LINT_NO_IGNORE=true syl-lint src/",
			DocKey:      "config.env_invalid",
			Recoverable: true,
		}
	case "config_invalid":
		return cliErrorHint{
			NextAction:  "修正 .syllintrc.yaml、--config 或 --rulesdir 指向的文件后重试",
			FixExample:  "syl-lint src/ --config .syllintrc.yaml",
			DocKey:      "config.invalid",
			Recoverable: true,
		}
	case "input_unreadable":
		return cliErrorHint{
			NextAction:  "确认路径存在且可读；目录参数末尾的 / 表示必须是目录",
			FixExample:  "chmod -R +r src && syl-lint src/",
			DocKey:      "input.unreadable",
			Recoverable: true,
		}
	case "output_write_failed":
		return cliErrorHint{
			NextAction:  "检查输出管道或重定向目标是否可写",
			FixExample:  "syl-lint src/ --format ndjson > result.ndjson",
			DocKey:      "runtime.output_write_failed",
			Recoverable: true,
		}
	case "unknown_command":
		return cliErrorHint{
			NextAction:  "确认命令与参数拼写，或查看帮助",
			FixExample:  "syl-lint --help",
			DocKey:      "arg.unknown_command",
			Recoverable: true,
		}
	default:
		return cliErrorHint{
			NextAction:  "根据 detail 修正参数或配置后重试",
			FixExample:  "syl-lint --help",
			DocKey:      "general.error",
			Recoverable: true,
		}
	}
}
