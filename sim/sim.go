package sim

import (
	"fmt"
	"math"

	filter "github.com/milosgajdos/go-localize"
	"github.com/milosgajdos/go-localize/landmark"
	"github.com/milosgajdos/go-localize/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewLandmarkMap creates a map of n landmarks placed uniformly at random
// in the rectangle [0, width) x [0, height) and returns it.
// Landmark IDs are 1..n. Landmarks are drawn from src; if src is nil the global source is used.
// It returns error if n is negative or if the rectangle is empty.
func NewLandmarkMap(n int, width, height float64, src rand.Source) (*landmark.Map, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid landmark count: %d", n)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map dimensions: [%f x %f]", width, height)
	}

	xDist := distuv.Uniform{Min: 0, Max: width, Src: src}
	yDist := distuv.Uniform{Min: 0, Max: height, Src: src}

	lms := make([]landmark.Landmark, n)
	for i := range lms {
		lms[i] = landmark.Landmark{
			ID: i + 1,
			X:  xDist.Rand(),
			Y:  yDist.Rand(),
		}
	}

	return landmark.NewMap(lms)
}

// Vehicle is a simulated agent which provides ground truth pose.
type Vehicle struct {
	// model propagates vehicle pose
	model filter.Propagator
	// x is vehicle pose
	x *mat.VecDense
	// q is actuation noise
	q filter.Noise
}

// NewVehicle creates new Vehicle at pose x driven by model m and returns it.
// Actuation noise q is added to every step; if q is nil the vehicle moves without noise.
// It returns error if the pose or the noise have invalid dimensions.
func NewVehicle(m filter.Propagator, x mat.Vector, q filter.Noise) (*Vehicle, error) {
	nx, _ := m.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid vehicle pose dimension: %d", x.Len())
	}

	if q != nil && q.Cov().SymmetricDim() != nx {
		return nil, fmt.Errorf("invalid actuation noise dimension: %d", q.Cov().SymmetricDim())
	}

	pose := &mat.VecDense{}
	pose.CloneFromVec(x)

	return &Vehicle{
		model: m,
		x:     pose,
		q:     q,
	}, nil
}

// Step moves the vehicle over time step dt given control input u.
// It returns error if the vehicle fails to be propagated.
func (v *Vehicle) Step(u mat.Vector, dt float64) error {
	var q mat.Vector
	if v.q != nil {
		q = v.q.Sample()
	}

	x, err := v.model.Propagate(v.x, u, q, dt)
	if err != nil {
		return fmt.Errorf("vehicle propagation failed: %v", err)
	}

	v.x.CloneFromVec(x)

	return nil
}

// Pose returns vehicle pose.
func (v *Vehicle) Pose() mat.Vector {
	pose := &mat.VecDense{}
	pose.CloneFromVec(v.x)

	return pose
}

// Sensor is a simulated range limited landmark sensor.
type Sensor struct {
	// Range is the maximum distance at which landmarks are observed
	Range float64
	// Noise is 2D measurement noise added to every observation; nil means no noise
	Noise filter.Noise
}

// NewSensor creates new Sensor with range r and measurement noise n and returns it.
// It returns error if r is not positive or if the noise is not two dimensional.
func NewSensor(r float64, n filter.Noise) (*Sensor, error) {
	if r <= 0 || math.IsNaN(r) {
		return nil, fmt.Errorf("invalid sensor range: %f", r)
	}

	if n != nil && n.Cov().SymmetricDim() != 2 {
		return nil, fmt.Errorf("invalid measurement noise dimension: %d", n.Cov().SymmetricDim())
	}

	return &Sensor{Range: r, Noise: n}, nil
}

// Observe returns observations of the landmarks in m which are within sensor range
// of an agent at pose x. Observations are expressed in the agent frame and are unassigned.
// It returns error if x is not a pose vector.
func (s *Sensor) Observe(x mat.Vector, m *landmark.Map) ([]landmark.Observation, error) {
	if x.Len() != model.PoseDim {
		return nil, fmt.Errorf("invalid pose dimension: %d", x.Len())
	}

	px, py, theta := x.AtVec(0), x.AtVec(1), x.AtVec(2)
	sin, cos := math.Sincos(theta)

	var z []landmark.Observation
	for _, lm := range m.InRange(px, py, s.Range) {
		dx, dy := lm.X-px, lm.Y-py
		o := landmark.Observation{
			ID: landmark.Unassigned,
			X:  cos*dx + sin*dy,
			Y:  -sin*dx + cos*dy,
		}
		if s.Noise != nil {
			r := s.Noise.Sample()
			o.X += r.AtVec(0)
			o.Y += r.AtVec(1)
		}
		z = append(z, o)
	}

	return z, nil
}

// GPS is a simulated absolute pose sensor used to obtain the initial pose estimate.
type GPS struct {
	// Noise is pose measurement noise; nil means no noise
	Noise filter.Noise
}

// Measure returns a noisy measurement of pose x.
// It returns error if the noise dimension does not match the pose.
func (g *GPS) Measure(x mat.Vector) (mat.Vector, error) {
	z := &mat.VecDense{}
	z.CloneFromVec(x)

	if g.Noise == nil {
		return z, nil
	}

	r := g.Noise.Sample()
	if r.Len() != x.Len() {
		return nil, fmt.Errorf("invalid GPS noise dimension: %d", r.Len())
	}
	z.AddVec(z, r)

	return z, nil
}
