// Package depgraph models a package-dependency universe and translates CNF
// formulas into it: a formula is satisfiable exactly when the generated
// graph has a valid resolution.
package depgraph

// VersionRef points at one version of one node.
type VersionRef struct {
	Node    string
	Version string
}

// RequireGroup is a "select at least one of" set of alternatives. A group
// is data, not behavior: the resolver adapter decides how to express it in
// the engine's manifest format.
type RequireGroup []VersionRef

// Version is one selectable version of a node. Selecting it obliges the
// resolver to satisfy every Requires group and avoid every Conflicts ref.
type Version struct {
	Name      string
	Requires  []RequireGroup
	Conflicts []VersionRef
}

// Node is a named package with an ordered version list.
type Node struct {
	Name     string
	Versions []Version
}

// Graph is the complete problem handed to a resolver. Root is synthetic:
// only its Requires groups are meaningful, and they force every node the
// encoding cares about to be resolved.
type Graph struct {
	Root  Version
	Nodes []Node

	index map[string]int
}

// Node returns the named node, if present.
func (g *Graph) Node(name string) (*Node, bool) {
	if g.index == nil {
		g.index = make(map[string]int, len(g.Nodes))
		for i, node := range g.Nodes {
			g.index[node.Name] = i
		}
	}
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Resolution maps node names to the selected version name. A nil Resolution
// returned alongside a nil error means the graph has no valid resolution.
type Resolution map[string]string

// Satisfies reports whether the resolution selects a version for every node
// the root requires and violates no requires/conflicts edge of any selected
// version. Used by tests and by the post-solve verification step.
func (g *Graph) Satisfies(resolution Resolution) bool {
	selected := func(ref VersionRef) bool {
		return resolution[ref.Node] == ref.Version
	}
	groupMet := func(group RequireGroup) bool {
		for _, alt := range group {
			if selected(alt) {
				return true
			}
		}
		return false
	}

	for _, group := range g.Root.Requires {
		if !groupMet(group) {
			return false
		}
	}
	for _, node := range g.Nodes {
		versionName, ok := resolution[node.Name]
		if !ok {
			continue
		}
		var version *Version
		for i := range node.Versions {
			if node.Versions[i].Name == versionName {
				version = &node.Versions[i]
				break
			}
		}
		if version == nil {
			return false
		}
		for _, group := range version.Requires {
			if !groupMet(group) {
				return false
			}
		}
		for _, conflict := range version.Conflicts {
			if selected(conflict) {
				return false
			}
		}
	}
	return true
}
