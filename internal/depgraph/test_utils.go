package depgraph

import "context"

// ExhaustiveResolver tries every combination of version choices, pruning
// branches as soon as a conflict or a fully-decided requires-group is
// violated. It is the reference implementation of the resolver contract for
// tests, and it can count complete resolutions, which lets tests check that
// resolutions and satisfying assignments are in bijection on small
// instances.
type ExhaustiveResolver struct{}

func (ExhaustiveResolver) Resolve(_ context.Context, graph *Graph) (Resolution, error) {
	first, _ := enumerate(graph, true)
	return first, nil
}

// CountResolutions returns the number of distinct valid complete
// resolutions of the graph.
func (ExhaustiveResolver) CountResolutions(graph *Graph) int {
	_, count := enumerate(graph, false)
	return count
}

func enumerate(graph *Graph, firstOnly bool) (Resolution, int) {
	var (
		first Resolution
		count int
	)

	var walk func(i int, partial Resolution)
	walk = func(i int, partial Resolution) {
		if firstOnly && first != nil {
			return
		}
		if i == len(graph.Nodes) {
			if graph.Satisfies(partial) {
				count++
				if first == nil {
					first = make(Resolution, len(partial))
					for k, v := range partial {
						first[k] = v
					}
				}
			}
			return
		}
		node := graph.Nodes[i]
		for _, version := range node.Versions {
			partial[node.Name] = version.Name
			if !violates(graph, partial) {
				walk(i+1, partial)
			}
		}
		delete(partial, node.Name)
	}
	walk(0, make(Resolution, len(graph.Nodes)))

	return first, count
}

// violates reports whether the partial resolution already breaks an edge:
// a selected conflict, or a requires-group whose alternatives are all
// decided and none selected. Besides selected versions it inspects versions
// every complete resolution is forced into by a singleton root group; that
// keeps the search from wandering through assignments a not-yet-visited
// node is guaranteed to reject.
func violates(graph *Graph, partial Resolution) bool {
	groupViolated := func(group RequireGroup) bool {
		for _, alt := range group {
			selected, decided := partial[alt.Node]
			if !decided {
				return false
			}
			if selected == alt.Version {
				return false
			}
		}
		return true
	}

	forced := make(map[string]string)
	for _, group := range graph.Root.Requires {
		if groupViolated(group) {
			return true
		}
		if len(group) == 1 {
			forced[group[0].Node] = group[0].Version
		}
	}

	for _, node := range graph.Nodes {
		selected, active := partial[node.Name]
		if !active {
			selected, active = forced[node.Name]
		}
		if !active {
			continue
		}
		for _, version := range node.Versions {
			if version.Name != selected {
				continue
			}
			for _, group := range version.Requires {
				if groupViolated(group) {
					return true
				}
			}
			for _, conflict := range version.Conflicts {
				if partial[conflict.Node] == conflict.Version {
					return true
				}
			}
		}
	}
	return false
}
