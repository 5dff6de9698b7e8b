package landmark

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Unassigned is the ID of an observation not associated with any landmark.
const Unassigned = -1

// Landmark is a known map feature.
type Landmark struct {
	// ID identifies the landmark in the map
	ID int
	// X is landmark x map coordinate
	X float64
	// Y is landmark y map coordinate
	Y float64
}

// Observation is a landmark measurement.
// Raw observations are expressed in the agent (vehicle) frame;
// transformed observations are expressed in the map frame.
type Observation struct {
	// ID is the ID of the associated landmark or Unassigned
	ID int
	// X is observation x coordinate
	X float64
	// Y is observation y coordinate
	Y float64
}

// String implements the Stringer interface.
func (o Observation) String() string {
	return fmt.Sprintf("Observation{ID=%d X=%g Y=%g}", o.ID, o.X, o.Y)
}

// Map is an immutable collection of landmarks.
type Map struct {
	lms []Landmark
}

// NewMap creates new Map from landmarks lms and returns it.
// The map keeps its own copy of lms.
// It returns error if lms contains duplicate landmark IDs.
func NewMap(lms []Landmark) (*Map, error) {
	seen := make(map[int]struct{}, len(lms))
	for _, lm := range lms {
		if _, ok := seen[lm.ID]; ok {
			return nil, fmt.Errorf("duplicate landmark id: %d", lm.ID)
		}
		seen[lm.ID] = struct{}{}
	}

	data := make([]Landmark, len(lms))
	copy(data, lms)

	return &Map{lms: data}, nil
}

// Len returns the number of landmarks in the map.
func (m *Map) Len() int {
	return len(m.lms)
}

// Landmarks returns a copy of map landmarks in map order.
func (m *Map) Landmarks() []Landmark {
	lms := make([]Landmark, len(m.lms))
	copy(lms, m.lms)

	return lms
}

// InRange returns all landmarks whose Euclidean distance from (x, y) is
// strictly less than r. Landmarks are returned in map order.
func (m *Map) InRange(x, y, r float64) []Landmark {
	var lms []Landmark
	for _, lm := range m.lms {
		if Dist(x, y, lm.X, lm.Y) < r {
			lms = append(lms, lm)
		}
	}

	return lms
}

// Dist returns Euclidean distance between points (x1, y1) and (x2, y2).
func Dist(x1, y1, x2, y2 float64) float64 {
	return r2.Norm(r2.Sub(r2.Vec{X: x1, Y: y1}, r2.Vec{X: x2, Y: y2}))
}

// Transform transforms observations z from the frame of an agent located at (x, y)
// with heading theta into the map frame and returns them in a new slice.
// Observation IDs are carried over.
func Transform(z []Observation, x, y, theta float64) []Observation {
	sin, cos := math.Sincos(theta)

	out := make([]Observation, len(z))
	for i, o := range z {
		out[i] = Observation{
			ID: o.ID,
			X:  x + cos*o.X - sin*o.Y,
			Y:  y + sin*o.X + cos*o.Y,
		}
	}

	return out
}

// Associate assigns every observation in z the ID of its nearest landmark in lms.
// When two landmarks are equally near the one found first in lms wins.
// If lms is empty all observations are marked Unassigned.
func Associate(lms []Landmark, z []Observation) {
	for i := range z {
		z[i].ID = Unassigned
		minDist := math.MaxFloat64
		for _, lm := range lms {
			if d := Dist(lm.X, lm.Y, z[i].X, z[i].Y); d < minDist {
				minDist = d
				z[i].ID = lm.ID
			}
		}
	}
}
