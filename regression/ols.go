// Package regression implements the least squares fit backing the
// registration growth model.
package regression

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OLS computes ordinary least squares using QR factorization. An intercept
// term is always fit since the growth model always carries a base level.
type OLS struct {
	coef      []float64
	intercept float64
	trained   bool
}

// NewOLS creates an untrained ordinary least squares model.
func NewOLS() *OLS {
	return &OLS{}
}

// Fit trains the model on the design matrix x and single-column target y.
func (o *OLS) Fit(x, y mat.Matrix) error {
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	withOnes := stackOnes(x)
	_, n := withOnes.Dims()

	yT := y.T()

	qr := new(mat.QR)
	qr.Factorize(withOnes)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)
	yq := new(mat.Dense)
	yq.Mul(yT, q)

	// back substitution on the upper triangular R
	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	o.intercept = c[0]
	o.coef = c[1:]
	o.trained = true

	return nil
}

// Predict evaluates the fit model against the design matrix x returning one
// value per row.
func (o *OLS) Predict(x mat.Matrix) ([]float64, error) {
	if !o.trained {
		return nil, ErrUntrainedModel
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := append([]float64{o.intercept}, o.coef...)
	n := len(coef)

	xT := stackOnes(x).T()
	xn, _ := xT.Dims()
	if xn != n {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", xn-1, n-1, ErrFeatureLenMismatch)
	}
	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, xT)
	return res.RawRowView(0), nil
}

// RSquared scores the fit against the design matrix x and target y where 1.0
// is a perfect fit.
func (o *OLS) RSquared(x, y mat.Matrix) (float64, error) {
	if !o.trained {
		return 0.0, ErrUntrainedModel
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	return stat.RSquaredFrom(res, ySlice, nil), nil
}

// Intercept returns the fit intercept term.
func (o *OLS) Intercept() float64 {
	return o.intercept
}

// Coef returns a copy of the fit coefficients excluding the intercept.
func (o *OLS) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// stackOnes prepends a column of ones to x for the intercept term.
func stackOnes(x mat.Matrix) mat.Matrix {
	m, _ := x.Dims()
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)
	onesMx := mat.NewDense(1, m, ones)
	xT := x.T()

	var withOnes mat.Dense
	withOnes.Stack(onesMx, xT)
	return withOnes.T()
}
