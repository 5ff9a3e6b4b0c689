// # internal/graph/detect.go
package graph

import "strings"

// FindCycles returns every elementary cycle as an ordered path list,
// normalized and de-duplicated. The result is deterministic regardless of map
// iteration order: start nodes and neighbors are visited in sorted order and
// each cycle is rotated to begin at its lexicographically smallest member.
func (g *Graph) FindCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	tc := &traversal{
		imports: g.imports,
		visited: make(map[string]bool, len(g.allFiles)),
		onStack: make(map[string]bool),
	}

	for _, file := range sortedKeys(g.allFiles) {
		if !tc.visited[file] {
			tc.walk(file, nil)
		}
	}

	return dedupeCycles(tc.cycles)
}

// traversal owns all DFS state for one FindCycles call, so concurrent calls
// never share recursion-stack membership.
type traversal struct {
	imports map[string]map[string]bool
	visited map[string]bool
	onStack map[string]bool
	cycles  [][]string
}

func (t *traversal) walk(node string, path []string) {
	t.visited[node] = true
	t.onStack[node] = true

	// Copy-on-append keeps a later sibling branch from inheriting this
	// branch's path suffix.
	path = append(append([]string(nil), path...), node)

	for _, next := range sortedKeys(t.imports[node]) {
		if t.onStack[next] {
			for i, p := range path {
				if p == next {
					cycle := make([]string, len(path)-i+1)
					copy(cycle, path[i:])
					cycle[len(cycle)-1] = next
					t.cycles = append(t.cycles, cycle)
					break
				}
			}
			continue
		}
		if !t.visited[next] {
			t.walk(next, path)
		}
	}

	t.onStack[node] = false
}

// dedupeCycles trims the repeated closing node, rotates each cycle so it
// starts at its lexicographically smallest member, and keys on that rotation.
// Self-loops (length <= 1 after trimming) are discarded.
func dedupeCycles(raw [][]string) [][]string {
	seen := make(map[string]bool, len(raw))
	unique := make([][]string, 0, len(raw))

	for _, cycle := range raw {
		if len(cycle) > 1 && cycle[0] == cycle[len(cycle)-1] {
			cycle = cycle[:len(cycle)-1]
		}
		if len(cycle) <= 1 {
			continue
		}

		rotated := rotateToSmallest(cycle)
		key := strings.Join(rotated, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, rotated)
	}

	return unique
}

func rotateToSmallest(cycle []string) []string {
	smallest := 0
	for i, node := range cycle {
		if node < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}
