package system

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/milk9111/pursuit/ai"
	"github.com/milk9111/pursuit/common"
)

// NavGrid is a walkable-cell navigation service. Cells connect to their four
// neighbours; jump links add extra edges that are traversed as arcs.
type NavGrid struct {
	cellSize float64
	cols     int
	rows     int
	walkable []bool
	links    map[int][]int
}

func NewNavGrid(cellSize float64, cols, rows int) (*NavGrid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("nav: cell size %v", cellSize)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("nav: grid %dx%d", cols, rows)
	}
	return &NavGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		walkable: make([]bool, cols*rows),
		links:    make(map[int][]int),
	}, nil
}

type gridPos struct {
	x int
	y int
}

func (g *NavGrid) CellSize() float64 { return g.cellSize }
func (g *NavGrid) Size() (int, int)  { return g.cols, g.rows }

func (g *NavGrid) inBounds(p gridPos) bool {
	return p.x >= 0 && p.y >= 0 && p.x < g.cols && p.y < g.rows
}

func (g *NavGrid) index(p gridPos) int {
	return p.y*g.cols + p.x
}

func (g *NavGrid) pos(idx int) gridPos {
	return gridPos{x: idx % g.cols, y: idx / g.cols}
}

func (g *NavGrid) SetWalkable(col, row int, ok bool) {
	p := gridPos{x: col, y: row}
	if g.inBounds(p) {
		g.walkable[g.index(p)] = ok
	}
}

func (g *NavGrid) Walkable(col, row int) bool {
	p := gridPos{x: col, y: row}
	return g.inBounds(p) && g.walkable[g.index(p)]
}

// AddJumpLink connects two walkable cells with a one-way jump edge.
func (g *NavGrid) AddJumpLink(fromCol, fromRow, toCol, toRow int) error {
	from := gridPos{x: fromCol, y: fromRow}
	to := gridPos{x: toCol, y: toRow}
	if !g.Walkable(fromCol, fromRow) || !g.Walkable(toCol, toRow) {
		return fmt.Errorf("nav: jump link (%d,%d)->(%d,%d) needs walkable ends", fromCol, fromRow, toCol, toRow)
	}
	if from == to {
		return fmt.Errorf("nav: jump link (%d,%d) loops on itself", fromCol, fromRow)
	}
	fi, ti := g.index(from), g.index(to)
	for _, existing := range g.links[fi] {
		if existing == ti {
			return nil
		}
	}
	g.links[fi] = append(g.links[fi], ti)
	return nil
}

// CellCenter is the ground-level world position of a cell's center.
func (g *NavGrid) CellCenter(col, row int) common.Vec3 {
	half := g.cellSize * 0.5
	return common.V3(float64(col)*g.cellSize+half, float64(row)*g.cellSize+half, 0)
}

func (g *NavGrid) cellAt(p common.Vec3) (gridPos, bool) {
	c := gridPos{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
	return c, g.inBounds(c)
}

// Project returns the center of the walkable cell nearest to p, searching
// outward ring by ring. It returns p itself when p is already on a walkable
// cell.
func (g *NavGrid) Project(p common.Vec3) (common.Vec3, bool) {
	c, _ := g.cellAt(p)
	c.x = clampInt(c.x, 0, g.cols-1)
	c.y = clampInt(c.y, 0, g.rows-1)
	if g.walkable[g.index(c)] {
		if _, in := g.cellAt(p); in {
			return p, true
		}
		return g.CellCenter(c.x, c.y), true
	}

	maxRing := max(g.cols, g.rows)
	for r := 1; r <= maxRing; r++ {
		best, found := gridPos{}, false
		bestDist := math.Inf(1)
		for y := c.y - r; y <= c.y+r; y++ {
			for x := c.x - r; x <= c.x+r; x++ {
				if absInt(x-c.x) != r && absInt(y-c.y) != r {
					continue
				}
				if !g.Walkable(x, y) {
					continue
				}
				d := common.DistSquared2D(p, g.CellCenter(x, y))
				if d < bestDist {
					best, bestDist, found = gridPos{x: x, y: y}, d, true
				}
			}
		}
		if found {
			return g.CellCenter(best.x, best.y), true
		}
	}
	return common.Vec3{}, false
}

// FindPath plans from -> to. When the goal cell cannot be reached the path
// ends at the explored cell closest to the goal and is marked partial. It
// returns false only when from is off the grid or nothing is walkable near
// it.
func (g *NavGrid) FindPath(from, to common.Vec3) (ai.Path, bool) {
	start, ok := g.cellAt(from)
	if !ok || !g.walkable[g.index(start)] {
		projected, ok := g.Project(from)
		if !ok {
			return ai.Path{}, false
		}
		start, _ = g.cellAt(projected)
	}
	goal, goalIn := g.cellAt(to)
	if !goalIn {
		goal.x = clampInt(goal.x, 0, g.cols-1)
		goal.y = clampInt(goal.y, 0, g.rows-1)
	}

	cells, jumps, reached := g.astar(start, goal)
	partial := !reached || !goalIn
	return g.buildPath(from, to, cells, jumps, partial), true
}

// PathLength is the polyline length of FindPath's result.
func (g *NavGrid) PathLength(from, to common.Vec3) (float64, bool) {
	path, ok := g.FindPath(from, to)
	if !ok {
		return 0, false
	}
	return path.Length(), true
}

func (g *NavGrid) buildPath(from, to common.Vec3, cells []gridPos, jumps []bool, partial bool) ai.Path {
	keep := collapseCollinear(cells, jumps)

	points := make([]ai.Waypoint, 0, len(keep)+1)
	for i, ci := range keep {
		c := cells[ci]
		loc := g.CellCenter(c.x, c.y)
		if i == 0 {
			loc = from
		}
		points = append(points, ai.Waypoint{Location: loc, Jump: jumps[ci]})
	}
	if partial {
		return ai.Path{Points: points, Partial: true}
	}

	// Finish on the exact goal. A jump lands on its cell center, so the goal
	// becomes one more walking step after it.
	n := len(points)
	switch {
	case n == 1:
		points = append(points, ai.Waypoint{Location: to})
	case points[n-2].Jump:
		if points[n-1].Location != to {
			points = append(points, ai.Waypoint{Location: to})
		}
	default:
		points[n-1].Location = to
	}
	return ai.Path{Points: points}
}

// collapseCollinear keeps the endpoints, both ends of every jump edge and
// every cell where the walking direction turns.
func collapseCollinear(cells []gridPos, jumps []bool) []int {
	n := len(cells)
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i == 0 || i == n-1 || jumps[i] || jumps[i-1] {
			keep = append(keep, i)
			continue
		}
		in := gridPos{x: cells[i].x - cells[i-1].x, y: cells[i].y - cells[i-1].y}
		out := gridPos{x: cells[i+1].x - cells[i].x, y: cells[i+1].y - cells[i].y}
		if in != out {
			keep = append(keep, i)
		}
	}
	return keep
}

type navEdge struct {
	to   int
	cost float64
	jump bool
}

func (g *NavGrid) edges(idx int) []navEdge {
	p := g.pos(idx)
	out := make([]navEdge, 0, 4+len(g.links[idx]))
	for _, n := range neighbors(p, g.cols, g.rows) {
		ni := g.index(n)
		if g.walkable[ni] {
			out = append(out, navEdge{to: ni, cost: 1})
		}
	}
	for _, ti := range g.links[idx] {
		out = append(out, navEdge{to: ti, cost: heuristic(p, g.pos(ti)), jump: true})
	}
	return out
}

// astar returns the cell sequence from start toward goal, a flag per cell
// telling whether the edge leaving it is a jump, and whether goal was
// reached.
func (g *NavGrid) astar(start, goal gridPos) ([]gridPos, []bool, bool) {
	total := g.cols * g.rows
	cameFrom := make([]int, total)
	viaJump := make([]bool, total)
	gScore := make([]float64, total)
	closed := make([]bool, total)
	for i := range cameFrom {
		cameFrom[i] = -1
		gScore[i] = math.Inf(1)
	}

	startIdx := g.index(start)
	goalIdx := g.index(goal)
	gScore[startIdx] = 0

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal)})

	bestIdx := startIdx
	bestH := heuristic(start, goal)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem)
		curIdx := g.index(cur.pos)
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if h := heuristic(cur.pos, goal); h < bestH || (h == bestH && gScore[curIdx] < gScore[bestIdx]) {
			bestIdx, bestH = curIdx, h
		}
		if curIdx == goalIdx {
			cells, jumps := g.reconstruct(cameFrom, viaJump, startIdx, goalIdx)
			return cells, jumps, true
		}

		for _, e := range g.edges(curIdx) {
			if closed[e.to] {
				continue
			}
			tentative := gScore[curIdx] + e.cost
			if tentative < gScore[e.to] {
				cameFrom[e.to] = curIdx
				viaJump[e.to] = e.jump
				gScore[e.to] = tentative
				n := g.pos(e.to)
				heap.Push(open, &openItem{pos: n, f: tentative + heuristic(n, goal), g: tentative})
			}
		}
	}

	cells, jumps := g.reconstruct(cameFrom, viaJump, startIdx, bestIdx)
	return cells, jumps, false
}

func (g *NavGrid) reconstruct(cameFrom []int, viaJump []bool, startIdx, endIdx int) ([]gridPos, []bool) {
	idxs := []int{endIdx}
	for cur := endIdx; cur != startIdx; {
		cur = cameFrom[cur]
		if cur == -1 {
			break
		}
		idxs = append(idxs, cur)
	}
	for i, j := 0, len(idxs)-1; i < j; i, j = i+1, j-1 {
		idxs[i], idxs[j] = idxs[j], idxs[i]
	}

	cells := make([]gridPos, len(idxs))
	jumps := make([]bool, len(idxs))
	for i, idx := range idxs {
		cells[i] = g.pos(idx)
		if i+1 < len(idxs) {
			jumps[i] = viaJump[idxs[i+1]]
		}
	}
	return cells, jumps
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

// heuristic is the straight-line distance in cells; jump edges cost the same,
// so it never overestimates.
func heuristic(a, b gridPos) float64 {
	return math.Hypot(float64(a.x-b.x), float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].g > o[j].g
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
