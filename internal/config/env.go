package config

import (
	"fmt"
	"os"
	"strings"
)

const EnvPrefix = "SYL_LINT_"

// LoadRunOptionsFromEnv 从环境变量读取运行参数，命令行参数优先级更高。
// 例如：SYL_LINT_EXTENSIONS=.js,.mjs  SYL_LINT_NO_IGNORE=true
func LoadRunOptionsFromEnv(prefix string) (RunOptions, bool, error) {
	o := RunOptions{}
	has := false

	setBool := func(key string, dst **bool, invert bool) error {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return nil
		}
		has = true
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("环境变量 %s%s 不是有效布尔值", prefix, key)
		}
		if invert {
			b = !b
		}
		*dst = Bool(b)
		return nil
	}
	setString := func(key string, dst *string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = strings.TrimSpace(v)
	}
	setList := func(key string, dst *[]string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = splitCSV(v)
	}

	setList("EXTENSIONS", &o.Extensions)
	setString("IGNORE_PATH", &o.IgnorePath)
	setString("CONFIG", &o.ConfigFile)
	setList("ENVS", &o.Envs)
	setList("GLOBALS", &o.Globals)
	setList("RULESDIR", &o.RulePaths)
	setList("IGNORE_PATTERNS", &o.IgnorePatterns)
	if err := setBool("NO_IGNORE", &o.Ignore, true); err != nil {
		return RunOptions{}, false, err
	}
	if err := setBool("NO_IMPLICIT_CONFIG", &o.UseImplicitConfig, true); err != nil {
		return RunOptions{}, false, err
	}

	return o, has, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func parseBool(v string) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool")
	}
}
