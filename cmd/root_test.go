package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseNDJSON(t *testing.T, s string) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]map[string]any, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

func TestVersion(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root := NewRootCmd(stdout, stderr)
	root.SetArgs([]string{"-v"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(stdout.String(), "syl-lint 版本：") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestMissingPaths(t *testing.T) {
	root := NewRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	root.SetArgs([]string{})
	err := root.Execute()
	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExitError got %T", err)
	}
	if ee.Code != ExitArg || ee.Kind != "arg_missing_paths" {
		t.Fatalf("unexpected exit error: %#v", ee)
	}
}

func TestLintOutputNDJSON(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "a.js"), []byte("debugger;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "b.js"), []byte("var b;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	stdout := &bytes.Buffer{}
	root := NewRootCmd(stdout, &bytes.Buffer{})
	root.SetArgs([]string{"__lint", tmp, "--format", "ndjson"})
	err := root.Execute()
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != ExitViolation {
		t.Fatalf("expected violation exit, got %v", err)
	}
	events := parseNDJSON(t, stdout.String())
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %s", len(events), stdout.String())
	}
	if events[0]["type"] != "result" || events[0]["filePath"] != filepath.Join(tmp, "a.js") {
		t.Fatalf("unexpected first event: %v", events[0])
	}
	if events[2]["type"] != "summary" || events[2]["errorCount"] != float64(1) {
		t.Fatalf("unexpected summary: %v", events[2])
	}
}

func TestLintCleanStylish(t *testing.T) {
	tmp := t.TempDir()
	f := filepath.Join(tmp, "a.js")
	if err := os.WriteFile(f, []byte("var a = 1;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	stdout := &bytes.Buffer{}
	root := NewRootCmd(stdout, &bytes.Buffer{})
	root.SetArgs([]string{"__lint", f})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stdout.Len() != 0 {
		t.Fatalf("clean run should print nothing, got %q", stdout.String())
	}
}

func TestQuietDropsWarnings(t *testing.T) {
	tmp := t.TempDir()
	f := filepath.Join(tmp, "a.js")
	if err := os.WriteFile(f, []byte("console.log(1);\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	stdout := &bytes.Buffer{}
	root := NewRootCmd(stdout, &bytes.Buffer{})
	root.SetArgs([]string{"__lint", f, "--rule", "no-console: warn", "--quiet", "--format", "json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("warnings must not fail the run: %v", err)
	}
	var results []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &results); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(results) != 1 || len(results[0]["messages"].([]any)) != 0 {
		t.Fatalf("unexpected results: %s", stdout.String())
	}
}

func TestNormalizeArgs(t *testing.T) {
	got := normalizeArgs([]string{"/tmp/a.js"})
	if len(got) != 2 || got[0] != "__lint" {
		t.Fatalf("unexpected normalize result: %#v", got)
	}
}
