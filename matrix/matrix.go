package matrix

import (
	"encoding/json"
	"fmt"
	"math"
)

// Unreachable marks a pair without a known travel distance. It can never be
// confused with a real distance since those are non-negative.
const Unreachable = -1.0

//*******************************************
// distance matrix
//*******************************************

// Matrix is a square distance matrix stored row-major in a flat slice.
// Distinct (i, j) cells may be written concurrently, readers must wait until
// all writers are done.
type Matrix struct {
	size int
	data []float64
}

// New creates a size x size matrix with a zero diagonal and every other cell
// set to Unreachable.
func New(size int) *Matrix {
	data := make([]float64, size*size)
	for i := range data {
		if i%(size+1) != 0 {
			data[i] = Unreachable
		}
	}
	return &Matrix{size: size, data: data}
}

// FromRows copies rows into a matrix after checking that it is square, has
// a zero diagonal, is symmetric and contains only distances or Unreachable.
func FromRows(rows [][]float64) (*Matrix, error) {
	m := New(len(rows))
	for i, row := range rows {
		if len(row) != len(rows) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), len(rows))
		}
		for j, v := range row {
			if i == j && v != 0 {
				return nil, fmt.Errorf("diagonal cell (%d, %d) is %v", i, j, v)
			}
			if v != Unreachable && (v < 0 || math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, fmt.Errorf("cell (%d, %d) is not a distance: %v", i, j, v)
			}
			if j < i && rows[j][i] != v {
				return nil, fmt.Errorf("cells (%d, %d) and (%d, %d) differ", i, j, j, i)
			}
			m.data[i*m.size+j] = v
		}
	}
	return m, nil
}

func (self *Matrix) Size() int {
	return self.size
}

func (self *Matrix) Get(i, j int) float64 {
	return self.data[i*self.size+j]
}

// Set writes value to both (i, j) and (j, i).
func (self *Matrix) Set(i, j int, value float64) {
	self.data[i*self.size+j] = value
	self.data[j*self.size+i] = value
}

func (self *Matrix) IsUnreachable(i, j int) bool {
	return self.data[i*self.size+j] == Unreachable
}

func (self *Matrix) Rows() [][]float64 {
	rows := make([][]float64, self.size)
	for i := range rows {
		rows[i] = append([]float64(nil), self.data[i*self.size:(i+1)*self.size]...)
	}
	return rows
}

func (self *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Rows())
}
