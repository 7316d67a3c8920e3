package depgraph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when From has not
	// been added.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when To has not
	// been added.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Edge is a directed "From depends on To" connection.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph over package names. Nodes and edges keep
// insertion order, which makes rendered output deterministic for a
// deterministic build sequence. Adding an existing node or edge is a
// no-op.
//
// The zero value is not usable; use [New]. Graph is not safe for
// concurrent use.
type Graph struct {
	order    []string
	nodes    map[string]struct{}
	edges    []Edge
	outgoing map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]struct{}),
		outgoing: make(map[string][]string),
	}
}

// AddNode adds id unless it is already present.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[id]; ok {
		return nil
	}
	g.nodes[id] = struct{}{}
	g.order = append(g.order, id)
	return nil
}

// AddEdge adds from -> to. Both nodes must exist.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(g.outgoing[from], to) {
		return nil
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.edges = append(g.edges, Edge{From: from, To: to})
	return nil
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Children returns the direct successors of id.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
