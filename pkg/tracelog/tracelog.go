// Package tracelog recovers file-level "who opened what" relationships from
// a TeX compiler trace log.
//
// TeX prints "(" followed by the path of every file it starts reading and
// ")" when it is done, so nesting in the log mirrors nesting of \input and
// \usepackage calls. [Parse] replays that nesting with a stack and records
// an edge from the enclosing file to each file opened inside it.
//
// Only paths inside the distribution tree are considered; system and
// temporary files are ignored. Real logs interleave parentheses from
// ordinary messages, so the parser never fails on imbalance: it reports
// the leftover depth and returns whatever edges it saw.
package tracelog

import (
	"maps"
	"path"
	"regexp"
	"slices"
)

// DefaultDistMarker is the directory name identifying the distribution
// tree in absolute paths.
const DefaultDistMarker = "tldist"

// placeholder marks a scope whose file is not known yet.
const placeholder = ""

// Options configures trace parsing.
type Options struct {
	// DistMarker is the directory name a path must pass through to count
	// as a distribution file (default: "tldist").
	DistMarker string
}

// Graph maps a file basename to the basenames it opened, in log order.
type Graph map[string][]string

// Edge is a caller → callee pair.
type Edge struct {
	From string
	To   string
}

// Edges flattens the graph, ordered by caller then log order.
func (g Graph) Edges() []Edge {
	var out []Edge
	for _, from := range slices.Sorted(maps.Keys(g)) {
		for _, to := range g[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// Result is the outcome of parsing one log.
type Result struct {
	Graph Graph
	// Unbalanced is the number of scopes still open at the end of the
	// log. Non-zero means the log was malformed; Graph is still usable.
	Unbalanced int
}

// Balanced reports whether every scope opened in the log was closed.
func (r Result) Balanced() bool { return r.Unbalanced == 0 }

// Parse extracts the file dependency graph from log text.
func Parse(text string, opts Options) Result {
	var (
		re    = tokenRegexp(opts.DistMarker)
		stack []string
		g     = make(Graph)
	)

	for _, tok := range re.FindAllString(text, -1) {
		switch tok {
		case "(":
			stack = append(stack, placeholder)
		case ")":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			top := len(stack) - 1
			if top < 0 || stack[top] != placeholder {
				continue
			}
			to := path.Base(tok)
			if from := nearestResolved(stack[:top]); from != "" {
				g[from] = append(g[from], to)
			}
			stack[top] = to
		}
	}

	return Result{Graph: g, Unbalanced: len(stack)}
}

func nearestResolved(frames []string) string {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i] != placeholder {
			return frames[i]
		}
	}
	return ""
}

func tokenRegexp(marker string) *regexp.Regexp {
	if marker == "" {
		marker = DefaultDistMarker
	}
	return regexp.MustCompile(`[()]|/[\w./]+/` + regexp.QuoteMeta(marker) + `/[^\s()]+`)
}
