package dag

import "sort"

const (
	unvisited = iota
	inStack
	done
)

// HasCycle reports whether forward contains a directed cycle reachable from
// any of ids or from any id that only appears in forward.
func HasCycle(forward map[string][]string, ids []string) bool {
	return FindCycle(forward, ids) != nil
}

// FindCycle returns the node ids of the first cycle found, closing id
// repeated at the end (A, B, C, A). It returns nil for an acyclic graph.
func FindCycle(forward map[string][]string, ids []string) []string {
	state := make(map[string]int, len(ids))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = inStack
		stack = append(stack, id)
		for _, next := range forward[id] {
			switch state[next] {
			case inStack:
				cycle = closeCycle(stack, next)
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range roots(forward, ids) {
		if state[id] != unvisited {
			continue
		}
		if dfs(id) {
			return cycle
		}
	}
	return nil
}

// roots lists ids first, then edge-only ids in sorted order so that
// traversal is deterministic.
func roots(forward map[string][]string, ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids)+len(forward))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	var extra []string
	for id := range forward {
		if _, ok := seen[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func closeCycle(stack []string, start string) []string {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == start {
			out := make([]string, 0, len(stack)-i+1)
			out = append(out, stack[i:]...)
			return append(out, start)
		}
	}
	return []string{start, start}
}
