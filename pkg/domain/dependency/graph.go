package dependency

// Graph is a directed dependency graph over task IDs. An edge from -> to
// means "to depends on from": from must finish before to can start.
//
// Insertion order of nodes and edges is preserved so that traversal orders
// are deterministic.
type Graph struct {
	nodes []string
	index map[string]int
	// dependents[id] lists tasks that depend on id (outgoing edges).
	dependents map[string][]string
	// dependencies[id] lists tasks id depends on (incoming edges).
	dependencies map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:        make(map[string]int),
		dependents:   make(map[string][]string),
		dependencies: make(map[string][]string),
	}
}

// AddNode registers a task ID. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, id)
}

// HasNode reports whether the task ID is registered.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns task IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// EdgeCount returns the number of committed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, deps := range g.dependents {
		n += len(deps)
	}
	return n
}

// HasEdge reports whether the edge from -> to is committed.
func (g *Graph) HasEdge(from, to string) bool {
	for _, d := range g.dependents[from] {
		if d == to {
			return true
		}
	}
	return false
}

// CanAddEdge checks whether the edge from -> to can be committed without
// violating graph invariants. The candidate edge is simulated and the whole
// augmented edge set is checked for a path from to back to from. The graph
// is never modified. O(V+E).
func (g *Graph) CanAddEdge(from, to string) error {
	if from == to {
		return ErrSelfDependency
	}
	if !g.HasNode(from) || !g.HasNode(to) {
		return ErrUnknownTask
	}
	if g.HasEdge(from, to) {
		return ErrDuplicateEdge
	}
	// The new edge creates a cycle exactly when from is already reachable
	// from to. Iterative DFS: task graphs of unbounded size must not risk
	// call-stack exhaustion.
	if g.reaches(to, from) {
		return ErrCyclicDependency
	}
	return nil
}

// AddEdge commits the edge from -> to after validating it.
func (g *Graph) AddEdge(from, to string) error {
	if err := g.CanAddEdge(from, to); err != nil {
		return err
	}
	g.dependents[from] = append(g.dependents[from], to)
	g.dependencies[to] = append(g.dependencies[to], from)
	return nil
}

// RemoveEdge drops the edge from -> to. Removal is unconditional: it cannot
// introduce a cycle.
func (g *Graph) RemoveEdge(from, to string) error {
	if !g.HasEdge(from, to) {
		return ErrEdgeNotFound
	}
	g.dependents[from] = remove(g.dependents[from], to)
	g.dependencies[to] = remove(g.dependencies[to], from)
	return nil
}

// Dependents returns the tasks directly depending on id, in edge order.
func (g *Graph) Dependents(id string) []string {
	out := make([]string, len(g.dependents[id]))
	copy(out, g.dependents[id])
	return out
}

// DependenciesOf returns the tasks id directly depends on, in edge order.
func (g *Graph) DependenciesOf(id string) []string {
	out := make([]string, len(g.dependencies[id]))
	copy(out, g.dependencies[id])
	return out
}

// TransitiveDependents returns every task reachable from id along
// dependency edges, excluding id itself, in visit order.
func (g *Graph) TransitiveDependents(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.dependents[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			out = append(out, next)
			stack = append(stack, next)
		}
	}
	return out
}

// HasCycle reports whether the committed edge set contains a directed
// cycle. Given the AddEdge gate this should stay false, but callers that
// rebuild graphs from persisted data still defend against it.
func (g *Graph) HasCycle() bool {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(g.nodes))

	for _, root := range g.nodes {
		if state[root] != unvisited {
			continue
		}
		// Iterative DFS with an explicit frame stack; frame.next tracks
		// how many dependents have been explored.
		type frame struct {
			id   string
			next int
		}
		stack := []frame{{id: root}}
		state[root] = onStack
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			deps := g.dependents[f.id]
			if f.next < len(deps) {
				child := deps[f.next]
				f.next++
				switch state[child] {
				case onStack:
					return true
				case unvisited:
					state[child] = onStack
					stack = append(stack, frame{id: child})
				}
				continue
			}
			state[f.id] = done
			stack = stack[:len(stack)-1]
		}
	}
	return false
}

// TopologicalSort returns task IDs in dependency order using Kahn's
// algorithm. Ready nodes are consumed in input order, making the result
// stable and deterministic. Returns ErrCyclicDependency when no such order
// exists.
func (g *Graph) TopologicalSort() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		indegree[id] = len(g.dependencies[id])
	}

	var ready []string
	for _, id := range g.nodes {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range g.dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, ErrCyclicDependency
	}
	return order, nil
}

// reaches reports whether target is reachable from start along dependent
// edges, using an iterative DFS with an explicit stack.
func (g *Graph) reaches(start, target string) bool {
	seen := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		for _, next := range g.dependents[cur] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
