// Copyright © 2024 Galvanized Logic Inc.

// mind.go wires a Bot object's "nirvana" AI: a behaviour tree holding one
// always-running behaviour, plus steering along an A* path computed over
// the world grid to the goal given to SetGoal. Grounded on behaviour.go's Init/Update/
// Reset contract (used as the stylistic model for world/fsm.go's Entity
// state machines too) and astar.go's Find, applied here to their
// original purpose: Bot pathing.
package ai

import (
	"math"

	"github.com/ozcore/openzone/collider"
	"github.com/ozcore/openzone/math/lin"
	"github.com/ozcore/openzone/world"
)

// cellPoint is a Point over the world grid's XY cells at world.CellSize
// resolution, ignoring Z (bots path across the ground plane; vertical
// movement is handled by physics.Simulate's gravity/floor contact).
type cellPoint struct{ x, y int32 }

func (p cellPoint) ID() int64 { return int64(p.x)<<32 | int64(uint32(p.y)) }
func (p cellPoint) XY() (x, y int) { return int(p.x), int(p.y) }

func cellOf(v lin.V3) cellPoint {
	return cellPoint{x: int32(v.X / world.CellSize), y: int32(v.Y / world.CellSize)}
}

func (p cellPoint) center(z float64) lin.V3 {
	return lin.V3{X: (float64(p.x) + 0.5) * world.CellSize, Y: (float64(p.y) + 0.5) * world.CellSize, Z: z}
}

// worldGraph implements Graph over the world grid, treating any cell
// whose centre overlaps a solid struct or object as impassable.
type worldGraph struct {
	col *collider.Collider
	z   float64 // query height, the bot's current Z.
	half lin.V3 // bot's half-extents, used to size the walkability probe.
}

func (g *worldGraph) walkable(p cellPoint) bool {
	box := world.NewAABB(p.center(g.z), g.half)
	return !g.col.Overlaps(box, world.NilObject)
}

func (g *worldGraph) Neighbours(at Point) (pts []Point) {
	p := at.(cellPoint)
	for _, d := range [4]cellPoint{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		n := cellPoint{x: p.x + d.x, y: p.y + d.y}
		if g.walkable(n) {
			pts = append(pts, n)
		}
	}
	return pts
}

func (g *worldGraph) Cost(a, b Point) float64 { return 1.0 }

func (g *worldGraph) Estimate(a, b Point) float64 {
	ap, bp := a.(cellPoint), b.(cellPoint)
	dx, dy := float64(ap.x-bp.x), float64(ap.y-bp.y)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Mind is one Bot's AI state: its current path and a behaviour tree
// running a single chaseBehaviour; the tree does not pick between tactics.
type Mind struct {
	bot   world.ObjectId
	tree  BehaviourTree
	path  []Point
	step  int
	chase *chaseBehaviour
}

// NewMind creates a Mind for the given Bot object, idle until SetGoal is
// called.
func NewMind(bot world.ObjectId) *Mind {
	m := &Mind{bot: bot, tree: NewBehaviourTree()}
	m.chase = &chaseBehaviour{mind: m}
	m.tree.Start(m.chase, nil)
	return m
}

// SetGoal computes a new path from the bot's current position to goal
// using Find over the world grid, walkability probed through col.
func (m *Mind) SetGoal(w *world.World, col *collider.Collider, goal lin.V3) {
	o := w.Objects.Get(m.bot)
	if o == nil {
		return
	}
	graph := &worldGraph{col: col, z: o.Position.Z, half: o.Half}
	start, end := cellOf(o.Position), cellOf(goal)
	var path []Point
	Find(graph, start, end, &path)
	m.path = path
	m.step = 0
}

// Tick advances the bot one step along its current path by setting its
// Dynamic momentum towards the next waypoint; physics.Simulate performs
// the actual integration and collision response.
func (m *Mind) Tick(w *world.World) {
	m.tree.Tick()
	o := w.Objects.Get(m.bot)
	if o == nil || o.Bot == nil {
		return
	}
	m.steer(o)
}

func (m *Mind) steer(o *world.Object) {
	if m.step >= len(m.path) {
		o.Bot.Dynamic.Momentum.X = 0
		o.Bot.Dynamic.Momentum.Y = 0
		return
	}
	target := m.path[m.step].(cellPoint).center(o.Position.Z)
	dx, dy := target.X-o.Position.X, target.Y-o.Position.Y
	distSq := dx*dx + dy*dy
	const arriveRadius = world.CellSize * world.CellSize * 0.25
	if distSq < arriveRadius {
		m.step++
		return
	}
	speed := o.Class.Speed * o.Bot.Dynamic.Mass
	scale := speed / math.Sqrt(distSq)
	o.Bot.Dynamic.Momentum.X = dx * scale
	o.Bot.Dynamic.Momentum.Y = dy * scale
	o.Bot.Dynamic.Disabled = false
}

// chaseBehaviour is a trivial always-running Behaviour that keeps the
// bot's Mind ticking; concrete missions compose richer sequences/
// selectors (NewSequence/NewSelector) on top of a Mind's behaviour tree
// for class-specific tactics.
type chaseBehaviour struct {
	BehaviourBase
	mind *Mind
}

func (c *chaseBehaviour) Init()  { c.State = RUNNING }
func (c *chaseBehaviour) Update() (status BehaviourState) { return c.State }
