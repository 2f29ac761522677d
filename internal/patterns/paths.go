package patterns

import "github.com/miradorstack/mirador-pathmine/internal/models"

const unvisited = -1

// ActionPaths collects short explanatory walks around harmful transitions.
//
// For every graph taking a harmful transition (src,dst), shortest paths are
// enumerated from src and from dst to every other reachable node. A path is
// kept when it has at most maxHops edges and src,dst sit next to each other
// in either order. Occurrences with no qualifying path contribute the bare
// transition. Output is deduplicated by node sequence in first-seen order.
// A maxHops below one is raised to one.
func ActionPaths(cohort models.Cohort, harmful []models.Transition, maxHops int) []models.Path {
	if maxHops < 1 {
		maxHops = 1
	}
	out := make([]models.Path, 0)
	seen := make(map[string]struct{})
	emit := func(p models.Path) {
		key := p.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, g := range cohort.Graphs {
		for _, h := range harmful {
			if !g.HasEdge(h) {
				continue
			}
			found := false
			for i, start := range []models.Code{h.From, h.To} {
				if i == 1 && h.To == h.From {
					break
				}
				for _, p := range shortestPaths(g, start) {
					if p.Hops() <= maxHops && adjacent(p, h) {
						emit(p)
						found = true
					}
				}
			}
			if !found {
				emit(models.Path{h.From, h.To})
			}
		}
	}
	return out
}

// shortestPaths runs a breadth-first search from start and returns one
// shortest path to every other reachable node, in node insertion order.
func shortestPaths(g *models.Graph, start models.Code) []models.Path {
	origin, ok := g.Index(start)
	if !ok {
		return nil
	}
	parent := make([]int, g.NodeCount())
	for i := range parent {
		parent[i] = unvisited
	}
	parent[origin] = origin

	queue := []int{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.SuccessorIndexes(cur) {
			if parent[next] != unvisited {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	paths := make([]models.Path, 0, len(parent))
	for target := range parent {
		if target == origin || parent[target] == unvisited {
			continue
		}
		var rev []int
		for node := target; node != origin; node = parent[node] {
			rev = append(rev, node)
		}
		rev = append(rev, origin)
		path := make(models.Path, len(rev))
		for i, idx := range rev {
			path[len(rev)-1-i] = g.CodeAt(idx)
		}
		paths = append(paths, path)
	}
	return paths
}

func adjacent(p models.Path, t models.Transition) bool {
	for i := 0; i+1 < len(p); i++ {
		if (p[i] == t.From && p[i+1] == t.To) || (p[i] == t.To && p[i+1] == t.From) {
			return true
		}
	}
	return false
}
