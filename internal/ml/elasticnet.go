// Package ml implements the regression model and scores used by the training pipeline.
package ml

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultMaxIter = 1000
	DefaultTol     = 1e-4
)

var (
	ErrEmptyTrainingSet = errors.New("training set is empty")
	ErrShapeMismatch    = errors.New("feature count mismatch between model and input")
	ErrNotFitted        = errors.New("model is not fitted")
)

// ElasticNet is linear regression with combined L1 and L2 penalties, fitted by
// cyclic coordinate descent on the objective
//
//	1/(2n) ||y - Xw - b||² + alpha*l1_ratio*||w||₁ + 0.5*alpha*(1-l1_ratio)*||w||²
//
// The intercept is not penalised.
type ElasticNet struct {
	Alpha        float64   `json:"alpha"`
	L1Ratio      float64   `json:"l1_ratio"`
	MaxIter      int       `json:"max_iter"`
	Tol          float64   `json:"tol"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	NIter        int       `json:"n_iter"`
}

func NewElasticNet(alpha, l1Ratio float64) *ElasticNet {
	return &ElasticNet{Alpha: alpha, L1Ratio: l1Ratio, MaxIter: DefaultMaxIter, Tol: DefaultTol}
}

// Fit trains the model on rows of X against targets y.
func (m *ElasticNet) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return ErrEmptyTrainingSet
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows, %d targets", ErrShapeMismatch, n, len(y))
	}
	p := len(X[0])
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(row), p)
		}
	}
	if m.MaxIter <= 0 {
		m.MaxIter = DefaultMaxIter
	}
	if m.Tol <= 0 {
		m.Tol = DefaultTol
	}

	// Center columns so the intercept drops out of the coordinate updates.
	xMean := make([]float64, p)
	yMean := 0.0
	for i, row := range X {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	// Column-major copy of the centered design matrix.
	cols := make([][]float64, p)
	norms := make([]float64, p)
	for j := 0; j < p; j++ {
		cols[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			v := X[i][j] - xMean[j]
			cols[j][i] = v
			norms[j] += v * v
		}
	}

	resid := make([]float64, n)
	for i := range y {
		resid[i] = y[i] - yMean
	}

	l1 := m.Alpha * m.L1Ratio * float64(n)
	l2 := m.Alpha * (1 - m.L1Ratio) * float64(n)
	w := make([]float64, p)

	m.NIter = 0
	for iter := 1; iter <= m.MaxIter; iter++ {
		m.NIter = iter
		maxDelta, maxW := 0.0, 0.0
		for j := 0; j < p; j++ {
			if norms[j] == 0 {
				continue
			}
			old := w[j]
			rho := 0.0
			col := cols[j]
			for i := 0; i < n; i++ {
				rho += col[i] * resid[i]
			}
			rho += old * norms[j]

			next := softThreshold(rho, l1) / (norms[j] + l2)
			if delta := next - old; delta != 0 {
				for i := 0; i < n; i++ {
					resid[i] -= col[i] * delta
				}
				w[j] = next
			}
			maxDelta = math.Max(maxDelta, math.Abs(next-old))
			maxW = math.Max(maxW, math.Abs(next))
		}
		if maxW == 0 || maxDelta/maxW < m.Tol {
			break
		}
	}

	intercept := yMean
	for j := range w {
		intercept -= xMean[j] * w[j]
	}
	m.Coef = w
	m.Intercept = intercept
	return nil
}

// Predict scores every row of X.
func (m *ElasticNet) Predict(X [][]float64) ([]float64, error) {
	if m.Coef == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.Coef) {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(row), len(m.Coef))
		}
		sum := m.Intercept
		for j, v := range row {
			sum += m.Coef[j] * v
		}
		out[i] = sum
	}
	return out, nil
}

func softThreshold(x, lambda float64) float64 {
	switch {
	case x > lambda:
		return x - lambda
	case x < -lambda:
		return x + lambda
	default:
		return 0
	}
}
