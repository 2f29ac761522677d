package patterns

import (
	"sort"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// Components groups the endpoints of edges into undirected connected
// components. Traversal uses an explicit stack over an index arena, so deep
// graphs do not grow the call stack. Each component is sorted, and
// components are ordered by their first member.
func Components(edges []models.Transition) [][]models.Code {
	index := make(map[models.Code]int)
	var nodes []models.Code
	var adj [][]int
	id := func(c models.Code) int {
		if i, ok := index[c]; ok {
			return i
		}
		i := len(nodes)
		index[c] = i
		nodes = append(nodes, c)
		adj = append(adj, nil)
		return i
	}
	for _, e := range edges {
		u, v := id(e.From), id(e.To)
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}

	visited := make([]bool, len(nodes))
	components := make([][]models.Code, 0)
	for root := range nodes {
		if visited[root] {
			continue
		}
		var component []models.Code
		stack := []int{root}
		visited[root] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, nodes[cur])
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool { return components[i][0] < components[j][0] })
	return components
}
