// Package texsrc extracts the modules and document classes a LaTeX source
// requests through \usepackage and \documentclass.
package texsrc

import (
	"fmt"
	"iter"
	"os"
	"regexp"
	"strings"
)

// ModuleRef is one requested module or class name.
type ModuleRef struct {
	Name    string
	Options string // bracketed options without the brackets; empty when absent
}

// directiveRe matches \usepackage[opts]{a,b} and \documentclass[opts]{c}.
var directiveRe = regexp.MustCompile(`\\(?:usepackage|documentclass)\s*(\[[^\]]*\])?\s*\{(.*?)\}`)

// Extract yields a ModuleRef for each name listed in an inclusion
// directive of src. Names declared together share their options text.
// The sequence is lazy and may be ranged over any number of times.
func Extract(src string) iter.Seq[ModuleRef] {
	return func(yield func(ModuleRef) bool) {
		for _, m := range directiveRe.FindAllStringSubmatch(src, -1) {
			opts := strings.TrimSuffix(strings.TrimPrefix(m[1], "["), "]")
			for _, name := range strings.Split(m[2], ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if !yield(ModuleRef{Name: name, Options: opts}) {
					return
				}
			}
		}
	}
}

// ExpandModuleNames yields the references of every source in turn,
// followed by the additional module names verbatim (without options).
func ExpandModuleNames(sources []string, additional []string) iter.Seq[ModuleRef] {
	return func(yield func(ModuleRef) bool) {
		for _, src := range sources {
			for ref := range Extract(src) {
				if !yield(ref) {
					return
				}
			}
		}
		for _, mod := range additional {
			if !yield(ModuleRef{Name: mod}) {
				return
			}
		}
	}
}

// Names collects the module names of refs in order.
func Names(refs iter.Seq[ModuleRef]) []string {
	var out []string
	for ref := range refs {
		out = append(out, ref.Name)
	}
	return out
}

// IsPath reports whether a command-line argument names a source file
// rather than a bare module: anything containing "." or "/" is a path.
func IsPath(arg string) bool {
	return strings.ContainsAny(arg, "./")
}

// ReadSources splits command-line arguments into source texts (read from
// the named files) and bare module names.
func ReadSources(args []string) (sources []string, modules []string, err error) {
	for _, arg := range args {
		if !IsPath(arg) {
			modules = append(modules, arg)
			continue
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("read source: %w", err)
		}
		sources = append(sources, string(data))
	}
	return sources, modules, nil
}
