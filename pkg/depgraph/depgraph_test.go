package depgraph

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestGraph_AddEdge(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "a"} {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	if err := g.AddNode(""); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(\"\") = %v, want ErrInvalidNodeID", err)
	}
	if got := g.Nodes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Nodes() = %v", got)
	}

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if err := g.AddEdge("x", "b"); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x, b) = %v", err)
	}
	if err := g.AddEdge("a", "x"); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a, x) = %v", err)
	}
}

func TestClosure(t *testing.T) {
	deps := map[string][]string{
		"A": {"B"},
		"B": {"A", "C"},
		"C": nil,
		"D": {"E"},
	}
	expand := func(id string) []string { return deps[id] }

	tests := []struct {
		name string
		seed []string
		want []string
	}{
		{"cycle", []string{"A"}, []string{"A", "B", "C"}},
		{"seed order kept", []string{"C", "A"}, []string{"C", "A", "B"}},
		{"repeated seed", []string{"D", "D"}, []string{"D", "E"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Closure(tt.seed, expand); !slices.Equal(got, tt.want) {
				t.Errorf("Closure(%v) = %v, want %v", tt.seed, got, tt.want)
			}
		})
	}
}

func TestClosure_Idempotent(t *testing.T) {
	deps := map[string][]string{"A": {"B"}, "B": {"A", "C"}}
	expand := func(id string) []string { return deps[id] }

	once := Closure([]string{"A"}, expand)
	twice := Closure(once, expand)
	if !slices.Equal(once, twice) {
		t.Errorf("closure of closure = %v, want %v", twice, once)
	}
}

func TestClosure_ExpandsOnce(t *testing.T) {
	calls := map[string]int{}
	Closure([]string{"A", "B"}, func(id string) []string {
		calls[id]++
		return []string{"A", "B"}
	})
	for id, n := range calls {
		if n != 1 {
			t.Errorf("%s expanded %d times", id, n)
		}
	}
}

func TestToDOT(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "lonely"} {
		g.AddNode(id)
	}
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	want := strings.Join([]string{
		"digraph {",
		`"a" -> "b";`,
		`"b" -> "c";`,
		"}",
		"",
	}, "\n")
	if got := ToDOT(g); got != want {
		t.Errorf("ToDOT() =\n%s\nwant\n%s", got, want)
	}

	if got := ToDOT(New()); got != "digraph {\n}\n" {
		t.Errorf("empty ToDOT() = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
