package sim

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
)

func TestNewMatrix_EntriesInRange(t *testing.T) {
	m := NewMatrix(7, rand.New(rand.NewSource(3)))
	if m.Colors() != 7 {
		t.Fatalf("expected 7 colors, got %d", m.Colors())
	}
	vals := m.Values()
	if len(vals) != 49 {
		t.Fatalf("expected 49 entries, got %d", len(vals))
	}
	for i, v := range vals {
		if v < -1 || v >= 1 {
			t.Fatalf("entry %d = %v outside [-1,1)", i, v)
		}
	}
}

func TestNewMatrix_DeterministicForSeed(t *testing.T) {
	a := NewMatrix(5, rand.New(rand.NewSource(50))).Values()
	b := NewMatrix(5, rand.New(rand.NewSource(50))).Values()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs between identical seeds: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMatrix_ResetWithoutTriggerIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMatrix(4, rng)
	before := m.Values()
	if got := m.Reset(false, rng); got != m {
		t.Fatal("expected Reset(false) to return the same matrix")
	}
	for i, v := range m.Values() {
		if v != before[i] {
			t.Fatalf("entry %d changed without trigger", i)
		}
	}
}

func TestMatrix_ResetWithTriggerRedraws(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMatrix(4, rng)
	r := m.Reset(true, rng)
	if r == m {
		t.Fatal("expected a new matrix on trigger")
	}
	if r.Colors() != 4 {
		t.Fatalf("expected reset to keep 4 colors, got %d", r.Colors())
	}
	same := true
	for i, v := range r.Values() {
		if v != m.Values()[i] {
			same = false
		}
	}
	if same {
		t.Fatal("expected reset matrix to differ from the original")
	}
}

func TestMatrix_RowMajorAsymmetric(t *testing.T) {
	m, err := NewMatrixFromRows([][]float32{
		{0.1, 0.2},
		{-0.3, 0.4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.At(0, 1) != 0.2 || m.At(1, 0) != -0.3 {
		t.Fatalf("expected At(0,1)=0.2 At(1,0)=-0.3, got %v %v", m.At(0, 1), m.At(1, 0))
	}
}

func TestMatrix_SetClamps(t *testing.T) {
	m := NewMatrix(2, rand.New(rand.NewSource(1)))
	m.Set(0, 0, 3)
	m.Set(1, 1, -7)
	if m.At(0, 0) != 1 || m.At(1, 1) != -1 {
		t.Fatalf("expected clamped 1 and -1, got %v and %v", m.At(0, 0), m.At(1, 1))
	}
}

func TestMatrix_AtOutOfRangePanics(t *testing.T) {
	m := NewMatrix(3, rand.New(rand.NewSource(1)))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for color outside the matrix")
		}
	}()
	m.At(0, 3)
}

func TestNewMatrixFromRows_RejectsRagged(t *testing.T) {
	_, err := NewMatrixFromRows([][]float32{{0, 1}, {0}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewMatrixFromRows(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for empty rows, got %v", err)
	}
}

func TestMatrix_CloneIsIndependent(t *testing.T) {
	m := NewMatrix(2, rand.New(rand.NewSource(9)))
	c := m.Clone()
	c.Set(0, 0, 0.5)
	m.Set(0, 0, -0.5)
	if c.At(0, 0) != 0.5 {
		t.Fatalf("expected clone unaffected by original, got %v", c.At(0, 0))
	}
}

func TestMatrix_String(t *testing.T) {
	m, _ := NewMatrixFromRows([][]float32{{0.5, -0.25}, {1, 0}})
	s := m.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), s)
	}
	if lines[0] != " 0.500\t-0.250" {
		t.Fatalf("unexpected first row %q", lines[0])
	}
}
