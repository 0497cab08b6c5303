// Copyright © 2024 Galvanized Logic Inc.

package ai

// Point and Graph are the search-space contract astar.go's Find walks.
// An application supplies a Graph over its own notion of location
// (waypoint, grid cell, nav-mesh node) by implementing Point/Graph for
// it.
type Point interface {
	ID() int64          // unique, stable identifier for this location.
	XY() (x, y int)      // grid coordinates, used by callers that need them.
}

// Graph exposes the connectivity and costs Find needs.
type Graph interface {
	Neighbours(at Point) []Point         // locations reachable from at.
	Cost(a, b Point) float64             // actual cost of the a->b edge.
	Estimate(a, b Point) float64         // admissible heuristic a->b.
}

// priorityPoint pairs a Point with its current frontier priority for
// the min-heap Find pops from.
type priorityPoint struct {
	Point
	Priority float64
}

// priorityPointHeap implements container/heap.Interface over
// priorityPoint, ordered by ascending Priority.
type priorityPointHeap []priorityPoint

func (h priorityPointHeap) Len() int            { return len(h) }
func (h priorityPointHeap) Less(i, j int) bool  { return h[i].Priority < h[j].Priority }
func (h priorityPointHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }

func (h *priorityPointHeap) Push(x any) {
	*h = append(*h, x.(priorityPoint))
}

func (h *priorityPointHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
