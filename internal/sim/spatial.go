package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Neighbor is one hit of a radius query.
type Neighbor struct {
	Index int     // position in the population the index was built from
	Dist  float32 // euclidean distance to the query point
}

// Index answers radius queries over the particle positions it was built
// from. Implementations are immutable after construction and safe for
// concurrent queries.
//
// Query appends to dst every particle whose distance to p is <= radius, each
// exactly once and in no particular order. The querying particle itself is
// included when it lies within the radius; callers filter by index.
type Index interface {
	Query(p mgl32.Vec2, radius float32, dst []Neighbor) []Neighbor
}

// IndexKind names a neighbor search strategy.
type IndexKind string

const (
	IndexBrute  IndexKind = "brute"  // O(n) scan per query
	IndexKDTree IndexKind = "kdtree" // flat median-split kd-tree
	IndexGonum  IndexKind = "gonum"  // gonum spatial/kdtree
	IndexGrid   IndexKind = "grid"   // uniform hash grid
)

// IndexKinds lists every supported strategy.
var IndexKinds = []IndexKind{IndexBrute, IndexKDTree, IndexGonum, IndexGrid}

// ParseIndexKind maps a flag value onto an IndexKind.
func ParseIndexKind(s string) (IndexKind, error) {
	for _, k := range IndexKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown index %q (supported: brute, kdtree, gonum, grid)", ErrInvalidConfig, s)
}

// BuildIndex constructs a fresh index over pop. cellSize is only used by the
// grid strategy and should be the query radius the caller will use.
func BuildIndex(kind IndexKind, pop []Particle, cellSize float32) (Index, error) {
	build, err := indexBuilder(kind)
	if err != nil {
		return nil, err
	}
	return build(pop, cellSize), nil
}

type buildFunc func(pop []Particle, cellSize float32) Index

func indexBuilder(kind IndexKind) (buildFunc, error) {
	switch kind {
	case IndexBrute:
		return func(pop []Particle, _ float32) Index { return newBruteIndex(pop) }, nil
	case IndexKDTree:
		return func(pop []Particle, _ float32) Index { return newKDTree(pop) }, nil
	case IndexGonum:
		return func(pop []Particle, _ float32) Index { return newGonumIndex(pop) }, nil
	case IndexGrid:
		return func(pop []Particle, cellSize float32) Index { return newGridIndex(pop, cellSize) }, nil
	}
	return nil, fmt.Errorf("%w: unknown index %q", ErrInvalidConfig, kind)
}

// dist2 is the single squared-distance routine every strategy filters with,
// so all of them agree on which points sit exactly on the boundary.
func dist2(a, b mgl32.Vec2) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

// within tests the inclusive radius bound and appends a hit.
func within(dst []Neighbor, q, pos mgl32.Vec2, r2 float32, idx int) []Neighbor {
	if d2 := dist2(q, pos); d2 <= r2 {
		dst = append(dst, Neighbor{Index: idx, Dist: float32(math.Sqrt(float64(d2)))})
	}
	return dst
}

// pruneSlack widens the box tests used to discard tree nodes and grid cells
// so rounding in the coordinate subtraction can never hide a point that
// dist2 would accept.
func pruneSlack(radius float32) float32 {
	return radius + radius*1e-4 + 1e-12
}

// bruteIndex scans every particle per query.
type bruteIndex struct {
	pos []mgl32.Vec2
}

func newBruteIndex(pop []Particle) *bruteIndex {
	pos := make([]mgl32.Vec2, len(pop))
	for i, p := range pop {
		pos[i] = p.Pos
	}
	return &bruteIndex{pos: pos}
}

func (b *bruteIndex) Query(p mgl32.Vec2, radius float32, dst []Neighbor) []Neighbor {
	r2 := radius * radius
	for i, q := range b.pos {
		dst = within(dst, p, q, r2, i)
	}
	return dst
}
