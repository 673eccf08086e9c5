package depgraph

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/mmaaz-git/pipip/internal/cnf"
)

// Truth values are spelled as package versions: picking x7 at 2.0.0 sets
// variable 7 true, picking it at 1.0.0 sets it false.
const (
	FalseVersion = "1.0.0"
	TrueVersion  = "2.0.0"
)

// VariableNode names the node carrying variable v's truth value.
func VariableNode(v int64) string {
	return fmt.Sprintf("x%d", v)
}

// ClauseNode names the node enforcing the i-th clause (1-based).
func ClauseNode(i int) string {
	return fmt.Sprintf("c%d", i)
}

// Encode builds a dependency graph whose resolutions correspond one-to-one
// with the formula's satisfying assignments:
//
//   - each variable becomes a node with two mutually conflicting versions,
//     so any resolution commits to exactly one truth value;
//   - each clause becomes a single-version node whose one requires-group
//     lists the version of each literal's variable node that satisfies it;
//   - the synthetic root requires every clause node and every variable node,
//     so even variables absent from all clauses get decided.
func Encode(formula cnf.Formula) *Graph {
	graph := &Graph{}

	for v := int64(1); v <= formula.Variables; v++ {
		name := VariableNode(v)
		graph.Nodes = append(graph.Nodes, Node{
			Name: name,
			Versions: []Version{
				{
					Name:      FalseVersion,
					Conflicts: []VersionRef{{Node: name, Version: TrueVersion}},
				},
				{
					Name:      TrueVersion,
					Conflicts: []VersionRef{{Node: name, Version: FalseVersion}},
				},
			},
		})
		graph.Root.Requires = append(graph.Root.Requires, RequireGroup{
			{Node: name, Version: FalseVersion},
			{Node: name, Version: TrueVersion},
		})
	}

	for i, clause := range formula.Clauses {
		name := ClauseNode(i + 1)
		alternatives := lo.Map(clause, func(literal cnf.Literal, _ int) VersionRef {
			version := FalseVersion
			if literal.Positive() {
				version = TrueVersion
			}
			return VersionRef{Node: VariableNode(literal.Var()), Version: version}
		})
		graph.Nodes = append(graph.Nodes, Node{
			Name: name,
			Versions: []Version{
				{
					Name:     FalseVersion,
					Requires: []RequireGroup{alternatives},
				},
			},
		})
		graph.Root.Requires = append(graph.Root.Requires, RequireGroup{
			{Node: name, Version: FalseVersion},
		})
	}

	return graph
}
