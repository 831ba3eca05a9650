package sim

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// Matrix holds the attraction coefficient for every ordered pair of colors,
// stored row-major. Entry (a, b) is the multiplier a particle of color a
// feels from a particle of color b; (a, b) and (b, a) are independent.
type Matrix struct {
	n      int
	values []float32
}

// NewMatrix fills a numColors x numColors matrix with values drawn uniformly
// from [-1, 1).
func NewMatrix(numColors int, rng *rand.Rand) *Matrix {
	m := &Matrix{
		n:      numColors,
		values: make([]float32, numColors*numColors),
	}
	for i := range m.values {
		m.values[i] = rng.Float32()*2 - 1
	}
	return m
}

// NewMatrixFromRows builds a matrix from explicit rows. Every row must have
// as many entries as there are rows.
func NewMatrixFromRows(rows [][]float32) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: attraction matrix has no rows", ErrInvalidConfig)
	}
	m := &Matrix{n: n, values: make([]float32, n*n)}
	for a, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: attraction matrix row %d has %d entries, want %d", ErrInvalidConfig, a, len(row), n)
		}
		for b, v := range row {
			m.Set(a, b, v)
		}
	}
	return m, nil
}

// Reset returns a freshly randomized matrix of the same size when trigger is
// set, and the receiver untouched otherwise.
func (m *Matrix) Reset(trigger bool, rng *rand.Rand) *Matrix {
	if !trigger {
		return m
	}
	return NewMatrix(m.n, rng)
}

// At returns the coefficient for the ordered pair (a, b). Colors outside
// [0, Colors()) are a programming error and panic.
func (m *Matrix) At(a, b int) float32 {
	if a < 0 || a >= m.n || b < 0 || b >= m.n {
		panic(fmt.Sprintf("sim: color pair (%d,%d) outside %dx%d attraction matrix", a, b, m.n, m.n))
	}
	return m.values[a*m.n+b]
}

// Set overwrites one coefficient, clamped to [-1, 1].
func (m *Matrix) Set(a, b int, v float32) {
	if a < 0 || a >= m.n || b < 0 || b >= m.n {
		panic(fmt.Sprintf("sim: color pair (%d,%d) outside %dx%d attraction matrix", a, b, m.n, m.n))
	}
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	m.values[a*m.n+b] = v
}

// Colors is the side length of the matrix.
func (m *Matrix) Colors() int { return m.n }

// Values returns a row-major copy of every coefficient.
func (m *Matrix) Values() []float32 {
	out := make([]float32, len(m.values))
	copy(out, m.values)
	return out
}

// String renders the matrix as a tab separated table, one row per line.
//
//	 0.512	-0.033
//	-0.870	 0.250
func (m *Matrix) String() string {
	var sb strings.Builder
	for a := 0; a < m.n; a++ {
		for b := 0; b < m.n; b++ {
			if b > 0 {
				sb.WriteByte('\t')
			}
			fmt.Fprintf(&sb, "% .3f", m.values[a*m.n+b])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, values: m.Values()}
}
