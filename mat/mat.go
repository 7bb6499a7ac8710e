// Package mat bridges row-major Go slices to gonum dense matrices for the
// regression and forecast packages.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrColMismatch = errors.New("column size mismatch")

// NewDenseFromArray converts a row-major 2D slice into a gonum dense matrix.
// All rows must have the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromVector converts a slice into a single-column matrix suitable as
// a regression target.
func NewDenseFromVector(y []float64) *mat.Dense {
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data)
}
