package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// cellKey addresses one bin of the hash grid. Positions are unbounded, so
// bins live in a map rather than a fixed array.
type cellKey struct{ x, y int32 }

// gridIndex buckets particle indices into square bins. With the cell size
// equal to the cutoff radius a cutoff query touches at most 3x3 bins.
type gridIndex struct {
	pos      []mgl32.Vec2
	cellSize float32
	bins     map[cellKey][]int
}

func newGridIndex(pop []Particle, cellSize float32) *gridIndex {
	if !(cellSize > 0) {
		cellSize = 1
	}
	g := &gridIndex{
		pos:      make([]mgl32.Vec2, len(pop)),
		cellSize: cellSize,
		bins:     make(map[cellKey][]int),
	}
	for i, p := range pop {
		g.pos[i] = p.Pos
		k := g.key(p.Pos[0], p.Pos[1])
		g.bins[k] = append(g.bins[k], i)
	}
	return g
}

func (g *gridIndex) cell(v float32) int32 {
	c := math.Floor(float64(v) / float64(g.cellSize))
	if c > math.MaxInt32 {
		return math.MaxInt32
	}
	if c < math.MinInt32 {
		return math.MinInt32
	}
	return int32(c)
}

func (g *gridIndex) key(x, y float32) cellKey {
	return cellKey{g.cell(x), g.cell(y)}
}

func (g *gridIndex) Query(p mgl32.Vec2, radius float32, dst []Neighbor) []Neighbor {
	r2 := radius * radius
	slack := pruneSlack(radius)
	lo := g.key(p[0]-slack, p[1]-slack)
	hi := g.key(p[0]+slack, p[1]+slack)

	// A huge radius would walk far more empty cells than there are bins.
	// Small spans keep the ordered walk so results come back in a stable order.
	span := float64(int64(hi.x)-int64(lo.x)+1) * float64(int64(hi.y)-int64(lo.y)+1)
	if span > 64 && span > float64(len(g.bins)) {
		for k, bin := range g.bins {
			if k.x < lo.x || k.x > hi.x || k.y < lo.y || k.y > hi.y {
				continue
			}
			for _, i := range bin {
				dst = within(dst, p, g.pos[i], r2, i)
			}
		}
		return dst
	}

	for cx := int64(lo.x); cx <= int64(hi.x); cx++ {
		for cy := int64(lo.y); cy <= int64(hi.y); cy++ {
			for _, i := range g.bins[cellKey{int32(cx), int32(cy)}] {
				dst = within(dst, p, g.pos[i], r2, i)
			}
		}
	}
	return dst
}
