package sim

import "github.com/go-gl/mathgl/mgl32"

// kdLeafSize is the largest bucket stored in a single leaf.
const kdLeafSize = 8

// kdNode is either a leaf owning order[start:end] or an internal node split
// on one axis. Everything in the left subtree has coordinate <= splitVal on
// splitDim, everything in the right subtree >= splitVal.
type kdNode struct {
	splitDim    int // 0 = x, 1 = y, -1 = leaf
	splitVal    float32
	left, right int
	start, end  int
}

// kdTree is a flat-array 2D kd-tree rebuilt from scratch every tick.
type kdTree struct {
	pos   []mgl32.Vec2
	order []int // particle indices permuted so each leaf owns a contiguous run
	nodes []kdNode
}

func newKDTree(pop []Particle) *kdTree {
	n := len(pop)
	t := &kdTree{
		pos:   make([]mgl32.Vec2, n),
		order: make([]int, n),
		nodes: make([]kdNode, 0, 2*(n/kdLeafSize+1)),
	}
	for i, p := range pop {
		t.pos[i] = p.Pos
		t.order[i] = i
	}
	if n > 0 {
		t.build(0, n)
	}
	return t
}

// build returns the node id covering order[start:end].
func (t *kdTree) build(start, end int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, kdNode{splitDim: -1, start: start, end: end})
	if end-start <= kdLeafSize {
		return id
	}

	lo := t.pos[t.order[start]]
	hi := lo
	for _, i := range t.order[start+1 : end] {
		p := t.pos[i]
		lo[0], hi[0] = min(lo[0], p[0]), max(hi[0], p[0])
		lo[1], hi[1] = min(lo[1], p[1]), max(hi[1], p[1])
	}
	dim := 0
	if hi[1]-lo[1] > hi[0]-lo[0] {
		dim = 1
	}

	mid := (start + end) / 2
	t.selectKth(start, end-1, mid, dim)
	split := t.pos[t.order[mid]][dim]

	left := t.build(start, mid)
	right := t.build(mid, end)
	t.nodes[id] = kdNode{splitDim: dim, splitVal: split, left: left, right: right}
	return id
}

// selectKth is an iterative quickselect: afterwards order[k] holds the k-th
// smallest coordinate on dim within [left, right], with nothing larger before
// it and nothing smaller after it.
func (t *kdTree) selectKth(left, right, k, dim int) {
	for left < right {
		p := t.partition(left, right, left+(right-left)/2, dim)
		switch {
		case k == p:
			return
		case k < p:
			right = p - 1
		default:
			left = p + 1
		}
	}
}

// partition orders by (coordinate, particle index) so runs of equal
// coordinates split down the middle instead of piling onto one side.
func (t *kdTree) partition(left, right, pivot, dim int) int {
	o := t.order
	pi := o[pivot]
	pv := t.pos[pi][dim]
	o[pivot], o[right] = o[right], o[pivot]
	store := left
	for i := left; i < right; i++ {
		if c := t.pos[o[i]][dim]; c < pv || (c == pv && o[i] < pi) {
			o[store], o[i] = o[i], o[store]
			store++
		}
	}
	o[right], o[store] = o[store], o[right]
	return store
}

func (t *kdTree) Query(p mgl32.Vec2, radius float32, dst []Neighbor) []Neighbor {
	if len(t.nodes) == 0 {
		return dst
	}
	r2 := radius * radius
	slack := pruneSlack(radius)

	var buf [64]int
	stack := append(buf[:0], 0)
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if n.splitDim < 0 {
			for _, i := range t.order[n.start:n.end] {
				dst = within(dst, p, t.pos[i], r2, i)
			}
			continue
		}
		c := p[n.splitDim]
		if c-slack <= n.splitVal {
			stack = append(stack, n.left)
		}
		if c+slack >= n.splitVal {
			stack = append(stack, n.right)
		}
	}
	return dst
}
