package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoadRunOptionsFromEnv(t *testing.T) {
	t.Setenv("SYL_LINT_EXTENSIONS", ".js, .mjs")
	t.Setenv("SYL_LINT_IGNORE_PATH", "ci/.ignore")
	t.Setenv("SYL_LINT_ENVS", "node,mocha")
	t.Setenv("SYL_LINT_NO_IGNORE", "true")
	o, ok, err := LoadRunOptionsFromEnv(EnvPrefix)
	if err != nil {
		t.Fatalf("load from env failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected env options present")
	}
	if len(o.Extensions) != 2 || o.Extensions[1] != ".mjs" {
		t.Fatalf("bad extensions: %#v", o.Extensions)
	}
	if o.IgnorePath != "ci/.ignore" {
		t.Fatalf("bad ignore path: %q", o.IgnorePath)
	}
	if len(o.Envs) != 2 {
		t.Fatalf("bad envs: %#v", o.Envs)
	}
	if o.IgnoreEnabled() {
		t.Fatalf("expected ignore disabled")
	}
}

func TestLoadRunOptionsFromEnvEmpty(t *testing.T) {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, EnvPrefix) {
			t.Skip("当前环境已存在 SYL_LINT_* 变量，跳过无环境变量场景测试")
		}
	}
	_, ok, err := LoadRunOptionsFromEnv(EnvPrefix)
	if err != nil || ok {
		t.Fatalf("expected no env options, ok=%v err=%v", ok, err)
	}
}

func TestLoadRunOptionsFromEnvInvalidValue(t *testing.T) {
	t.Setenv("TSL_NO_IGNORE", "maybe")
	_, _, err := LoadRunOptionsFromEnv("TSL_")
	if err == nil {
		t.Fatalf("expected invalid bool error")
	}
}
