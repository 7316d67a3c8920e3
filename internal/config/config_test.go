package config

import (
	"os"
	"path/filepath"
	"testing"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "nanotex"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nanotex", "config.toml"), []byte(`db = "shared.json"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "shared.json" {
		t.Errorf("DB = %q", cfg.DB)
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name  string
		toml  string
		check func(t *testing.T, c Config)
	}{
		{
			name: "dist dir moves derived dirs",
			toml: `dist_dir = "/opt/tl"`,
			check: func(t *testing.T, c Config) {
				if c.MetaDir != filepath.Join("/opt/tl", "tlpkg") {
					t.Errorf("MetaDir = %q", c.MetaDir)
				}
				if c.MapDir != filepath.Join("/opt/tl", "fonts", "map", "dvips") {
					t.Errorf("MapDir = %q", c.MapDir)
				}
			},
		},
		{
			name: "explicit meta dir kept",
			toml: "dist_dir = \"/opt/tl\"\nmeta_dir = \"/srv/meta\"",
			check: func(t *testing.T, c Config) {
				if c.MetaDir != "/srv/meta" {
					t.Errorf("MetaDir = %q", c.MetaDir)
				}
			},
		},
		{
			name: "remote db",
			toml: `db = "redis://localhost:6379/0"`,
			check: func(t *testing.T, c Config) {
				if c.DB != "redis://localhost:6379/0" {
					t.Errorf("DB = %q", c.DB)
				}
				if c.DistDir != "tldist" {
					t.Errorf("DistDir = %q, want default", c.DistDir)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.toml))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "dist_dir = \"x\"\ndistdir = \"y\""))
	if !nterrors.Is(err, nterrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "dist_dir = ")); err == nil {
		t.Error("expected error for malformed TOML")
	}
}
