package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

const testDB = `{
  "packages": {
    "amsmath": {"deps": ["tools", "amsmath-dev"], "provides": ["amsmath", "amstext"]},
    "amsmath-dev": {"provides": ["amsmath"]},
    "tools": {"provides": ["calc", "array"]}
  }
}`

// testEnv lays out a workspace with a config file, a package database and
// one installed package, and returns the config path.
func testEnv(t *testing.T) (root, cfgPath string) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root = t.TempDir()

	files := map[string]string{
		"data/pkg-info.json":               testDB,
		"tldist/tlpkg/tlpobj/tools.tlpobj": "name tools\n RELOC/tex/latex/tools/calc.sty\n RELOC/tex/latex/tools/array.sty\n",
		"doc/main.tex":                     "\\documentclass{article}\n\\usepackage{amsmath}\n",
	}

	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfgPath = filepath.Join(root, "config.toml")
	cfg := "dist_dir = " + quote(filepath.Join(root, "tldist")) + "\n" +
		"db = " + quote(filepath.Join(root, "data", "pkg-info.json")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, cfgPath
}

func quote(s string) string { return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"` }

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	var out bytes.Buffer
	c.Stdout = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"probe", "deps", "install", "ls", "fonts", "cache", "config", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "db", "tenacious", "trace", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestDepsCommand(t *testing.T) {
	root, cfg := testEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"module", []string{"deps", "amsmath"}, "amsmath\ntools\n"},
		{"source file", []string{"deps", filepath.Join(root, "doc", "main.tex")}, "amsmath\ntools\n"},
		{"unknown module", []string{"deps", "nosuch"}, ""},
		{"graph", []string{"deps", "--graph", "amstext"}, "digraph {\n\"amsmath\" -> \"tools\";\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestDepsCommand_OutputFile(t *testing.T) {
	root, cfg := testEnv(t)
	dest := filepath.Join(root, "deps.dot")

	if _, err := execute(t, "--config", cfg, "deps", "--graph", "-o", dest, "amsmath"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph {\n") {
		t.Errorf("output file = %q", data)
	}
}

func TestDepsCommand_BadFormat(t *testing.T) {
	_, cfg := testEnv(t)
	_, err := execute(t, "--config", cfg, "deps", "--graph", "--format", "png", "amsmath")
	if !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestDepsCommand_DBOverride(t *testing.T) {
	root, cfg := testEnv(t)
	empty := filepath.Join(root, "empty.json")

	out, err := execute(t, "--config", cfg, "--db", empty, "deps", "amsmath")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "" {
		t.Errorf("missing database should predict nothing, got %q", out)
	}
}

func TestLsCommand(t *testing.T) {
	_, cfg := testEnv(t)

	out, err := execute(t, "--config", cfg, "ls", "tools")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if want := "tex/latex/tools/calc.sty\ntex/latex/tools/array.sty\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if _, err := execute(t, "--config", cfg, "ls", "nosuch"); !nterrors.Is(err, nterrors.ErrCodeManifestMissing) {
		t.Errorf("err = %v, want MANIFEST_MISSING", err)
	}
	if _, err := execute(t, "--config", cfg, "--tenacious", "ls", "nosuch", "tools"); err != nil {
		t.Errorf("tenacious ls: %v", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "config")
	if !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestErrorMessage(t *testing.T) {
	build := nterrors.Wrap(nterrors.ErrCodeCompilerFailure, errors.New("exit status 1"), "pdflatex terminated with code=1")
	other := nterrors.Wrap(nterrors.ErrCodeNetwork, errors.New("connection refused"), "fetch archive")

	c := New(io.Discard, LogInfo)
	if got := c.ErrorMessage(build); got != "pdflatex terminated with code=1" {
		t.Errorf("short build failure = %q", got)
	}
	if got := c.ErrorMessage(other); !strings.Contains(got, "connection refused") {
		t.Errorf("other error lost its cause: %q", got)
	}

	c.opts.trace = true
	if got := c.ErrorMessage(build); !strings.Contains(got, "exit status 1") {
		t.Errorf("traced build failure = %q", got)
	}
}
