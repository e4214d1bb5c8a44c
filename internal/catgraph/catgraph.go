// File: internal/catgraph/catgraph.go

// Package catgraph builds bounded-depth category membership graphs.
//
// The result is a graph, not a tree: nodes are identified by name alone, so
// a category reached along two different paths is the same node. Identity by
// name is a deliberate simplification; two nodes with equal names compare
// equal even when their parent sets were fetched at different depths and
// differ. Callers testing set membership must rely on names only.
package catgraph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Node is one category in the graph. Parents is the set of categories this
// one belongs to, keyed by name; it is empty at the depth frontier.
type Node struct {
	Name    string
	Parents NodeSet
}

// NodeSet is a set of Nodes keyed by name. Because identity is name-only,
// map semantics give exactly the equality the graph needs.
type NodeSet map[string]*Node

// Add inserts the node, keeping an existing entry with the same name.
func (s NodeSet) Add(n *Node) {
	if _, ok := s[n.Name]; !ok {
		s[n.Name] = n
	}
}

// Contains reports membership by name.
func (s NodeSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Flatten returns the node's own name plus, recursively, every ancestor
// name. It is a superset of Flatten of each parent.
func (n *Node) Flatten() map[string]struct{} {
	names := map[string]struct{}{n.Name: {}}
	for _, parent := range n.Parents {
		for name := range parent.Flatten() {
			names[name] = struct{}{}
		}
	}
	return names
}

// CategorySource is the one facade operation the builder needs.
type CategorySource interface {
	CategoriesOf(ctx context.Context, title string) (map[string]struct{}, error)
}

// Builder builds category graphs for pages.
type Builder struct {
	source CategorySource
	logger *zap.Logger
}

// NewBuilder returns a Builder over the given category source.
func NewBuilder(source CategorySource, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, logger: logger.Named("catgraph")}
}

// BuildGraph returns the page's category graph navigated to the given
// depth. Depth <= 0 means no traversal and an empty set; depth 1 is the
// page's direct categories with empty parent sets; each further level
// attaches the parents' own graphs built at depth-1.
//
// There is no cycle detection. A cycle in the wiki's real category graph
// costs redundant fetches but cannot prevent termination, because the
// depth strictly decreases at every level.
func (b *Builder) BuildGraph(ctx context.Context, title string, depth int) (NodeSet, error) {
	nodes := NodeSet{}
	if depth <= 0 {
		return nodes, nil
	}
	names, err := b.source.CategoriesOf(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("building category graph of %q: %w", title, err)
	}
	b.logger.Debug("fetched categories",
		zap.String("title", title), zap.Int("count", len(names)), zap.Int("depth", depth))
	for name := range names {
		node := &Node{Name: name, Parents: NodeSet{}}
		if depth > 1 {
			parents, err := b.BuildGraph(ctx, name, depth-1)
			if err != nil {
				return nil, err
			}
			node.Parents = parents
		}
		nodes.Add(node)
	}
	return nodes, nil
}
