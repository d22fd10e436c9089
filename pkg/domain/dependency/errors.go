package dependency

import "errors"

// Dependency graph errors.
var (
	// ErrCyclicDependency indicates an edge would close a directed cycle.
	// The edge is never committed; the graph stays unchanged.
	ErrCyclicDependency = errors.New("adding this dependency would create a cycle")
	// ErrSelfDependency indicates a task cannot depend on itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")
	// ErrDuplicateEdge indicates the dependency already exists.
	ErrDuplicateEdge = errors.New("dependency already exists")
	// ErrUnknownTask indicates an edge endpoint is not a node in the graph.
	ErrUnknownTask = errors.New("unknown task id")
	// ErrEdgeNotFound indicates a removal referenced a missing edge.
	ErrEdgeNotFound = errors.New("dependency edge not found")
)
