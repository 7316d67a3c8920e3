package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// Ext is the file extension of manifest records.
	Ext = ".tlpobj"

	relocPrefix   = "RELOC/"
	executePrefix = "execute"
)

// Action is a post-install action declared by a manifest, e.g.
// "addMap euler.map" or "addMixedMap cm-super-t1.map".
type Action struct {
	Name string
	Args []string
}

// Manifest is the parsed record of a single package.
type Manifest struct {
	Package string   // Package name (manifest basename without extension)
	Files   []string // Owned files, relative to the distribution root
	Actions []Action // Post-install actions in declaration order
}

// fileAttrRe matches trailing attributes on docfile lines
// (` details="..."`, ` language="..."`).
var fileAttrRe = regexp.MustCompile(`\s+(details|language)=.*$`)

// Parse reads a manifest record from r. The package name is supplied by
// the caller since it is derived from the record's file name.
func Parse(r io.Reader, pkg string) (*Manifest, error) {
	m := &Manifest{Package: pkg}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		ln := sc.Text()
		switch {
		case strings.HasPrefix(ln, " "):
			fn := strings.TrimLeft(ln, " \t")
			fn = strings.TrimPrefix(fn, relocPrefix)
			fn = fileAttrRe.ReplaceAllString(fn, "")
			if fn != "" {
				m.Files = append(m.Files, fn)
			}
		case strings.HasPrefix(ln, executePrefix):
			fields := strings.Fields(ln)[1:]
			if len(fields) > 0 {
				m.Actions = append(m.Actions, Action{Name: fields[0], Args: fields[1:]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", pkg, err)
	}
	return m, nil
}

// ReadFile parses the manifest at path, naming the package after the file.
func ReadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, PackageName(path))
}

// PackageName derives the package name from a manifest file path.
func PackageName(manifestPath string) string {
	return strings.TrimSuffix(filepath.Base(manifestPath), Ext)
}

// Modules returns the names of the LaTeX modules the package provides:
// the basenames of its .sty, .tex and .ltx files, extension removed.
func (m *Manifest) Modules() []string {
	return m.stems("sty", "tex", "ltx")
}

// Classes returns the names of the document classes (.cls files).
func (m *Manifest) Classes() []string {
	return m.stems("cls")
}

// Provided returns modules followed by classes.
func (m *Manifest) Provided() []string {
	return append(m.Modules(), m.Classes()...)
}

// FontMaps returns the owned font map files (.map).
func (m *Manifest) FontMaps() []string {
	var out []string
	for _, fn := range m.Files {
		if strings.HasSuffix(fn, ".map") {
			out = append(out, fn)
		}
	}
	return out
}

func (m *Manifest) stems(exts ...string) []string {
	var out []string
	for _, fn := range m.Files {
		base := path.Base(fn)
		ext := path.Ext(base)
		if ext == "" {
			continue
		}
		for _, want := range exts {
			if ext[1:] == want {
				out = append(out, strings.TrimSuffix(base, ext))
				break
			}
		}
	}
	return out
}
