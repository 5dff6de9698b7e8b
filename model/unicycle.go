package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// PoseDim is the dimension of pose state vector: [x, y, theta]
	PoseDim = 3
	// CtlDim is the dimension of control input vector: [velocity, yaw rate]
	CtlDim = 2
	// DefaultYawRateEpsilon is the yaw rate magnitude below which motion is treated as straight
	DefaultYawRateEpsilon = 0.001
)

// Unicycle is a velocity and yaw rate driven kinematic model of a planar agent.
// State vector is [x, y, theta], input vector is [velocity, yaw rate].
type Unicycle struct {
	// YawRateEpsilon is the yaw rate magnitude below which the motion is integrated as a straight line
	YawRateEpsilon float64
}

// NewUnicycle creates new Unicycle model with yaw rate threshold eps and returns it.
// If eps is non-positive DefaultYawRateEpsilon is used.
func NewUnicycle(eps float64) *Unicycle {
	if eps <= 0 {
		eps = DefaultYawRateEpsilon
	}

	return &Unicycle{YawRateEpsilon: eps}
}

// Propagate propagates pose x over time step dt given input u and adds noise q to the result.
// If the yaw rate is below the model threshold the agent moves along a straight line
// keeping its heading, otherwise the motion is integrated along an exact circular arc.
// q may be nil, in which case no noise is added.
// It returns error if either of the vectors has invalid dimensions or if dt is not positive.
func (m *Unicycle) Propagate(x, u, q mat.Vector, dt float64) (mat.Vector, error) {
	if x.Len() != PoseDim {
		return nil, fmt.Errorf("invalid state vector dimension: %d", x.Len())
	}

	if u.Len() != CtlDim {
		return nil, fmt.Errorf("invalid input vector dimension: %d", u.Len())
	}

	if q != nil && q.Len() != PoseDim {
		return nil, fmt.Errorf("invalid noise vector dimension: %d", q.Len())
	}

	if dt <= 0 {
		return nil, fmt.Errorf("invalid time step: %f", dt)
	}

	px, py, theta := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	v, yawRate := u.AtVec(0), u.AtVec(1)

	if math.Abs(yawRate) < m.YawRateEpsilon {
		px += v * dt * math.Cos(theta)
		py += v * dt * math.Sin(theta)
	} else {
		thetaNext := theta + yawRate*dt
		px += v / yawRate * (math.Sin(thetaNext) - math.Sin(theta))
		py += v / yawRate * (math.Cos(theta) - math.Cos(thetaNext))
		theta = thetaNext
	}

	out := mat.NewVecDense(PoseDim, []float64{px, py, theta})
	if q != nil {
		out.AddVec(out, q)
	}

	return out, nil
}

// Dims returns state and input dimensions of the model
func (m *Unicycle) Dims() (nx, nu int) {
	return PoseDim, CtlDim
}
