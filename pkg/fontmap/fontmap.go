// Package fontmap keeps the distribution's main pdfTeX font map in sync
// with the Type 1 fonts installed packages declare.
//
// Packages announce their maps through manifest actions such as
// "execute addMap euler.map". [Updater.Update] finds those map files under
// the map directory, picks every entry that binds a font to a .pfb file
// and appends the ones whose font name is not mapped yet.
package fontmap

import (
	"bufio"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	nterrors "github.com/matzehuels/nanotex/pkg/errors"
	"github.com/matzehuels/nanotex/pkg/manifest"
)

// Map actions that reference font map files.
var mapActions = []string{"addMap", "addMixedMap"}

var (
	pfbEntryRe = regexp.MustCompile(`^(\S+) .*<\S+[.]pfb$`)
	mapKeyRe   = regexp.MustCompile(`(?m)^\S+`)
)

// Entry is one font map line and the font name it binds.
type Entry struct {
	Key  string
	Line string
}

// Updater merges package font maps into MapFile.
type Updater struct {
	Repo    *manifest.Repository
	MapDir  string
	MapFile string
	Logger  *log.Logger
}

func (u *Updater) logger() *log.Logger {
	if u.Logger == nil {
		return log.Default()
	}
	return u.Logger
}

// MapNames returns the map files declared by pkgs, or by every installed
// package when pkgs is empty. Unknown packages are ignored.
func (u *Updater) MapNames(pkgs []string) ([]string, error) {
	actions, err := u.Repo.Actions()
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		pkgs = slices.Sorted(maps.Keys(actions))
	}
	var names []string
	for _, pkg := range pkgs {
		for _, a := range actions[pkg] {
			if slices.Contains(mapActions, a.Name) {
				names = append(names, a.Args...)
			}
		}
	}
	return names, nil
}

// Update appends new entries from the maps of pkgs to MapFile and
// returns how many were added. The file is only written when something
// was added.
func (u *Updater) Update(pkgs []string) (int, error) {
	names, err := u.MapNames(pkgs)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		u.logger().Warn("no font maps found", "packages", pkgs)
		return 0, nil
	}
	u.logger().Debug("font maps", "maps", names)

	entries, err := GrepEntries(u.MapDir, names)
	if err != nil {
		return 0, err
	}

	current, err := os.ReadFile(u.MapFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, nterrors.Wrap(nterrors.ErrCodeInternal, err, "read %s", u.MapFile)
	}
	merged, count := Merge(string(current), entries)
	if count == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(u.MapFile), 0o755); err != nil {
		return 0, nterrors.Wrap(nterrors.ErrCodeInternal, err, "create map dir")
	}
	if err := os.WriteFile(u.MapFile, []byte(merged), 0o644); err != nil {
		return 0, nterrors.Wrap(nterrors.ErrCodeInternal, err, "write %s", u.MapFile)
	}
	return count, nil
}

// Merge appends the entries whose key is not yet mapped in current. Of
// several entries with the same key only the first is taken.
func Merge(current string, entries []Entry) (string, int) {
	existing := make(map[string]bool)
	for _, k := range mapKeyRe.FindAllString(current, -1) {
		existing[k] = true
	}

	var b strings.Builder
	b.WriteString(current)
	if current != "" && !strings.HasSuffix(current, "\n") {
		b.WriteByte('\n')
	}
	count := 0
	for _, e := range entries {
		if existing[e.Key] {
			continue
		}
		existing[e.Key] = true
		b.WriteString(e.Line + "\n")
		count++
	}
	return b.String(), count
}

// GrepEntries reads every file under mapDir whose base name is one of
// names and returns its .pfb entries, in names order. A missing mapDir
// yields no entries.
func GrepEntries(mapDir string, names []string) ([]Entry, error) {
	found := make(map[string][]string)
	err := filepath.WalkDir(mapDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == mapDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() && slices.Contains(names, d.Name()) {
			found[d.Name()] = append(found[d.Name()], p)
		}
		return nil
	})
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInternal, err, "scan %s", mapDir)
	}

	var entries []Entry
	for _, name := range names {
		for _, p := range found[name] {
			es, err := readEntries(p)
			if err != nil {
				return nil, err
			}
			entries = append(entries, es...)
		}
	}
	return entries, nil
}

func readEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if m := pfbEntryRe.FindStringSubmatch(sc.Text()); m != nil {
			out = append(out, Entry{Key: m[1], Line: m[0]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nterrors.Wrap(nterrors.ErrCodeInternal, err, "read %s", path)
	}
	return out, nil
}
