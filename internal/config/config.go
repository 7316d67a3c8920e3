// Package config loads nanotex settings from an optional TOML file.
//
// Every setting has a default that matches a checkout laid out like
//
//	bin/         distribution binaries (pdflatex, mktexlsr)
//	tldist/      the distribution tree, manifests under tldist/tlpkg
//	tlarchive/   downloaded package archives
//	data/        the package database
//
// so nanotex works without any configuration file. Paths are used as
// given; relative ones resolve against the working directory.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
)

const appName = "nanotex"

// Config holds every configurable location.
type Config struct {
	DistDir    string `toml:"dist_dir"`
	MetaDir    string `toml:"meta_dir"`
	DB         string `toml:"db"`
	BinDir     string `toml:"bin_dir"`
	TmpDir     string `toml:"tmp_dir"`
	ArchiveDir string `toml:"archive_dir"`
	BaseURI    string `toml:"base_uri"`
	MapDir     string `toml:"map_dir"`
	MapFile    string `toml:"map_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DistDir:    "tldist",
		MetaDir:    filepath.Join("tldist", "tlpkg"),
		DB:         filepath.Join("data", "pkg-info.json"),
		BinDir:     "bin",
		TmpDir:     filepath.Join(os.TempDir(), appName),
		ArchiveDir: "tlarchive",
		BaseURI:    "https://ftp.cc.uoc.gr/mirrors/CTAN/systems/texlive/tlnet",
		MapDir:     filepath.Join("tldist", "fonts", "map", "dvips"),
		MapFile:    filepath.Join("dist", "pdftex.map"),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/nanotex/config.toml, falling back
// to ~/.config/nanotex/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath], which may be absent; an explicitly named file must
// exist. Unknown keys are rejected so typos do not pass silently.
//
// Setting dist_dir alone moves meta_dir and map_dir along with it.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, nterrors.Wrap(nterrors.ErrCodeInvalidInput, err, "load config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, nterrors.New(nterrors.ErrCodeInvalidInput,
			"config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if md.IsDefined("dist_dir") {
		if !md.IsDefined("meta_dir") {
			cfg.MetaDir = filepath.Join(cfg.DistDir, "tlpkg")
		}
		if !md.IsDefined("map_dir") {
			cfg.MapDir = filepath.Join(cfg.DistDir, "fonts", "map", "dvips")
		}
	}
	return cfg, nil
}
