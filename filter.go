package filter

import (
	"github.com/milosgajdos/go-localize/landmark"
	"gonum.org/v1/gonum/mat"
)

// Localizer estimates a pose of an agent moving through a known landmark map.
type Localizer interface {
	// Init seeds the filter around the initial condition
	Init(InitCond) error
	// Predict propagates the filter state given control input, time step and process noise std-devs
	Predict(u mat.Vector, dt float64, std []float64) error
	// Update corrects the filter state using observations in the agent frame
	Update(z []landmark.Observation, std []float64, sensorRange float64) error
	// Estimate returns the current pose estimate
	Estimate() (Estimate, error)
}

// Propagator propagates internal state of the system to the next step
type Propagator interface {
	// Propagate propagates state x given input u and noise q over time step dt
	Propagate(x, u, q mat.Vector, dt float64) (mat.Vector, error)
	// Dims returns state and input dimensions
	Dims() (nx, nu int)
}

// InitCond is initial state condition of the filter
type InitCond interface {
	// State returns initial filter state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is filter estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is dynamical system noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}
