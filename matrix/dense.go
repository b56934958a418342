package matrix

import "fmt"

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, data holds r*c elements in row-major order.
type Dense struct {
	r, c int
	data []float64
}

// compile-time assertion that *Dense satisfies Matrix.
var _ Matrix = (*Dense)(nil)

// NewDense creates an r×c Dense matrix initialized to zeros.
//
// Stage 1 (Validate): rows and cols must be > 0.
// Stage 2 (Allocate): a flat backing slice of length r*c.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Identity returns an n×n Dense matrix with ones on the diagonal.
func Identity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

func (m *Dense) indexOf(i, j int) (int, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("Dense(%d,%d): %w", i, j, ErrIndexOutOfBounds)
	}
	return i*m.c + j, nil
}

// At retrieves the element at (i, j). Complexity: O(1).
func (m *Dense) At(i, j int) (float64, error) {
	idx, err := m.indexOf(i, j)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (i, j). Complexity: O(1).
func (m *Dense) Set(i, j int, v float64) error {
	idx, err := m.indexOf(i, j)
	if err != nil {
		return err
	}
	m.data[idx] = v
	return nil
}

// Add accumulates v into the element at (i, j). Complexity: O(1).
func (m *Dense) Add(i, j int, v float64) error {
	idx, err := m.indexOf(i, j)
	if err != nil {
		return err
	}
	m.data[idx] += v
	return nil
}

// Clone returns a deep copy of m. Complexity: O(rows*cols).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)
	return &Dense{r: m.r, c: m.c, data: cp}
}

// Symmetric reports whether m equals its transpose within tol.
func (m *Dense) Symmetric(tol float64) bool {
	if m.r != m.c {
		return false
	}
	for i := 0; i < m.r; i++ {
		for j := i + 1; j < m.c; j++ {
			if abs(m.data[i*m.c+j]-m.data[j*m.c+i]) > tol {
				return false
			}
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
