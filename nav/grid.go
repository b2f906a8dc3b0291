package nav

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/lab1702/tank-arena/game"
)

// maxSearchNodes bounds a single A* search so an unreachable goal on a large
// grid cannot stall a decision tick.
const maxSearchNodes = 20000

// Rect is an axis-aligned obstacle
type Rect struct {
	Min game.Vec2 `json:"min" yaml:"min"`
	Max game.Vec2 `json:"max" yaml:"max"`
}

// Grid is an occupancy grid over a rectangular battlefield. Points outside
// the grid count as blocked.
type Grid struct {
	origin   game.Vec2
	cellSize float64
	cols     int
	rows     int
	blocked  []bool
}

type cell struct{ c, r int }

// NewGrid creates an empty grid covering the rectangle lo..hi with square cells.
func NewGrid(lo, hi game.Vec2, cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("new grid: cell size %.2f must be positive", cellSize)
	}
	if hi.X <= lo.X || hi.Y <= lo.Y {
		return nil, fmt.Errorf("new grid: empty bounds %v..%v", lo, hi)
	}
	cols := int(math.Ceil((hi.X - lo.X) / cellSize))
	rows := int(math.Ceil((hi.Y - lo.Y) / cellSize))
	return &Grid{
		origin:   lo,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		blocked:  make([]bool, cols*rows),
	}, nil
}

// BlockRect marks every cell overlapping r as impassable
func (g *Grid) BlockRect(r Rect) {
	lo := g.cellOf(r.Min)
	hi := g.cellOf(r.Max)
	for row := max(lo.r, 0); row <= min(hi.r, g.rows-1); row++ {
		for col := max(lo.c, 0); col <= min(hi.c, g.cols-1); col++ {
			g.blocked[row*g.cols+col] = true
		}
	}
}

// Blocked reports whether p lies in an impassable cell or off the grid
func (g *Grid) Blocked(p game.Vec2) bool {
	return !g.passable(g.cellOf(p))
}

func (g *Grid) cellOf(p game.Vec2) cell {
	return cell{
		c: int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		r: int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
	}
}

func (g *Grid) center(k cell) game.Vec2 {
	return game.Vec2{
		X: g.origin.X + (float64(k.c)+0.5)*g.cellSize,
		Y: g.origin.Y + (float64(k.r)+0.5)*g.cellSize,
	}
}

func (g *Grid) inside(k cell) bool {
	return k.c >= 0 && k.c < g.cols && k.r >= 0 && k.r < g.rows
}

func (g *Grid) passable(k cell) bool {
	return g.inside(k) && !g.blocked[k.r*g.cols+k.c]
}

// HasLineOfSight samples the segment at quarter-cell steps and reports
// whether none of the samples falls in a blocked cell.
func (g *Grid) HasLineOfSight(from, to game.Vec2) bool {
	d := from.Dist(to)
	step := g.cellSize / 4
	n := int(math.Ceil(d / step))
	for i := 0; i <= n; i++ {
		t := 1.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		if g.Blocked(from.Lerp(to, t)) {
			return false
		}
	}
	return true
}

// ComputePath finds a path with A* over the 8-connected grid and smooths it
// by dropping waypoints that are visible from an earlier one. The returned
// waypoints end exactly at to.
func (g *Grid) ComputePath(from, to game.Vec2) ([]game.Vec2, error) {
	goal := g.cellOf(to)
	if !g.passable(goal) {
		return nil, fmt.Errorf("path to %v: goal blocked: %w", to, game.ErrNoPath)
	}
	if g.HasLineOfSight(from, to) {
		return []game.Vec2{to}, nil
	}

	cells, err := g.search(g.cellOf(from), goal)
	if err != nil {
		return nil, fmt.Errorf("path to %v: %w", to, err)
	}

	points := make([]game.Vec2, 0, len(cells))
	for _, k := range cells[1:] {
		points = append(points, g.center(k))
	}
	if len(points) == 0 {
		return []game.Vec2{to}, nil
	}
	points[len(points)-1] = to
	return g.smooth(from, points), nil
}

// smooth removes waypoints that can be skipped because a later waypoint is
// directly visible.
func (g *Grid) smooth(from game.Vec2, points []game.Vec2) []game.Vec2 {
	out := make([]game.Vec2, 0, len(points))
	anchor := from
	i := 0
	for i < len(points) {
		j := len(points) - 1
		for j > i && !g.HasLineOfSight(anchor, points[j]) {
			j--
		}
		out = append(out, points[j])
		anchor = points[j]
		i = j + 1
	}
	return out
}

var neighborOffsets = [8]cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func (g *Grid) search(start, goal cell) ([]cell, error) {
	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &node{cell: start})
	costSoFar := map[cell]float64{start: 0}
	seq := 0
	visited := 0

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*node)
		if current.cell == goal {
			return reconstructPath(current), nil
		}
		visited++
		if visited > maxSearchNodes {
			break
		}
		for _, off := range neighborOffsets {
			next := cell{current.cell.c + off.c, current.cell.r + off.r}
			if !g.passable(next) {
				continue
			}
			stepCost := 1.0
			if off.c != 0 && off.r != 0 {
				// no cutting corners around obstacles
				if !g.passable(cell{current.cell.c + off.c, current.cell.r}) ||
					!g.passable(cell{current.cell.c, current.cell.r + off.r}) {
					continue
				}
				stepCost = math.Sqrt2
			}
			newCost := costSoFar[current.cell] + stepCost
			if old, ok := costSoFar[next]; !ok || newCost < old {
				costSoFar[next] = newCost
				seq++
				heap.Push(pq, &node{
					cell:     next,
					priority: newCost + octile(next, goal),
					seq:      seq,
					parent:   current,
				})
			}
		}
	}
	return nil, game.ErrNoPath
}

func octile(a, b cell) float64 {
	dx := math.Abs(float64(a.c - b.c))
	dy := math.Abs(float64(a.r - b.r))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

type node struct {
	cell     cell
	priority float64
	seq      int
	parent   *node
}

// priorityQueue orders nodes by estimated total cost, then by insertion
// order so equal-cost searches are repeatable.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(*node))
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func reconstructPath(n *node) []cell {
	var path []cell
	for ; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
