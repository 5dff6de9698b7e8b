package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// InitCond implements filter.InitCond
type InitCond struct {
	state *mat.VecDense
	cov   *mat.SymDense
}

// NewInitCond creates new InitCond and returns it
func NewInitCond(state mat.Vector, cov mat.Symmetric) *InitCond {
	s := &mat.VecDense{}
	s.CloneFromVec(state)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &InitCond{
		state: s,
		cov:   c,
	}
}

// NewPoseInitCond creates InitCond for pose (x, y, theta) whose axes are independent
// and have standard deviations stored in std: [std_x, std_y, std_theta].
// It returns error if std does not have 3 elements or if any of them is negative or not finite.
func NewPoseInitCond(x, y, theta float64, std []float64) (*InitCond, error) {
	if len(std) != PoseDim {
		return nil, fmt.Errorf("invalid std dimension: %d", len(std))
	}

	cov, err := DiagCov(std)
	if err != nil {
		return nil, err
	}

	state := mat.NewVecDense(PoseDim, []float64{x, y, theta})

	return NewInitCond(state, cov), nil
}

// State returns initial state
func (c *InitCond) State() mat.Vector {
	state := mat.NewVecDense(c.state.Len(), nil)
	state.CloneFromVec(c.state)

	return state
}

// Cov returns initial covariance
func (c *InitCond) Cov() mat.Symmetric {
	cov := mat.NewSymDense(c.cov.SymmetricDim(), nil)
	cov.CopySym(c.cov)

	return cov
}

// DiagCov returns a diagonal covariance matrix of independent variables with standard deviations std.
// It returns error if std is empty or contains negative or non-finite values.
func DiagCov(std []float64) (*mat.SymDense, error) {
	if len(std) == 0 {
		return nil, fmt.Errorf("invalid std dimension: %d", len(std))
	}

	cov := mat.NewSymDense(len(std), nil)
	for i, s := range std {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("invalid standard deviation: %f", s)
		}
		cov.SetSym(i, i, s*s)
	}

	return cov, nil
}
