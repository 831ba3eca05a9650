package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// gonumPoint carries the particle index through gonum's kd-tree, which only
// knows about Comparable values.
type gonumPoint struct {
	pos [2]float64
	idx int
}

func (p gonumPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.pos[d] - c.(gonumPoint).pos[d]
}

func (p gonumPoint) Dims() int { return 2 }

// Distance is squared, as kdtree's pruning expects.
func (p gonumPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(gonumPoint)
	dx := p.pos[0] - q.pos[0]
	dy := p.pos[1] - q.pos[1]
	return dx*dx + dy*dy
}

type gonumPoints []gonumPoint

func (p gonumPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p gonumPoints) Len() int { return len(p) }
func (p gonumPoints) Pivot(d kdtree.Dim) int { return gonumPlane{Dim: d, gonumPoints: p}.Pivot() }
func (p gonumPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// gonumPlane pivots on a fixed dimension. MedianOfMedians keeps the tree
// shape, and with it neighbor order, independent of any global RNG.
type gonumPlane struct {
	kdtree.Dim
	gonumPoints
}

// Less breaks coordinate ties on particle index so coincident points still
// partition evenly.
func (p gonumPlane) Less(i, j int) bool {
	a, b := p.gonumPoints[i], p.gonumPoints[j]
	if a.pos[p.Dim] != b.pos[p.Dim] {
		return a.pos[p.Dim] < b.pos[p.Dim]
	}
	return a.idx < b.idx
}
func (p gonumPlane) Swap(i, j int) {
	p.gonumPoints[i], p.gonumPoints[j] = p.gonumPoints[j], p.gonumPoints[i]
}
func (p gonumPlane) Slice(start, end int) kdtree.SortSlicer {
	p.gonumPoints = p.gonumPoints[start:end]
	return p
}
func (p gonumPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

type gonumIndex struct {
	pos  []mgl32.Vec2
	tree *kdtree.Tree
}

func newGonumIndex(pop []Particle) *gonumIndex {
	g := &gonumIndex{pos: make([]mgl32.Vec2, len(pop))}
	pts := make(gonumPoints, len(pop))
	for i, p := range pop {
		g.pos[i] = p.Pos
		pts[i] = gonumPoint{pos: [2]float64{float64(p.Pos[0]), float64(p.Pos[1])}, idx: i}
	}
	if len(pts) > 0 {
		g.tree = kdtree.New(pts, false)
	}
	return g
}

func (g *gonumIndex) Query(p mgl32.Vec2, radius float32, dst []Neighbor) []Neighbor {
	if g.tree == nil {
		return dst
	}
	slack := float64(pruneSlack(radius))
	keep := kdtree.NewDistKeeper(slack * slack)
	g.tree.NearestSet(keep, gonumPoint{pos: [2]float64{float64(p[0]), float64(p[1])}})

	r2 := radius * radius
	for _, c := range keep.Heap {
		// The keeper is seeded with a sentinel carrying no point.
		if c.Comparable == nil {
			continue
		}
		i := c.Comparable.(gonumPoint).idx
		dst = within(dst, p, g.pos[i], r2, i)
	}
	return dst
}
