package sir

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis selects a map frame axis of particle sense coordinates.
type Axis int

const (
	// AxisX is the x map axis
	AxisX Axis = iota
	// AxisY is the y map axis
	AxisY
)

// Particle is a single pose hypothesis.
type Particle struct {
	// ID is the particle identity assigned at initialization
	ID int
	// X is particle x map coordinate
	X float64
	// Y is particle y map coordinate
	Y float64
	// Theta is particle heading in radians
	Theta float64
	// Weight is particle importance weight
	Weight float64
	// Associations are IDs of landmarks matched in the last update
	Associations []int
	// SenseX are map frame x coordinates of the matched observations
	SenseX []float64
	// SenseY are map frame y coordinates of the matched observations
	SenseY []float64
}

// clone returns a deep copy of the particle.
func (p Particle) clone() Particle {
	c := p
	c.Associations = append([]int(nil), p.Associations...)
	c.SenseX = append([]float64(nil), p.SenseX...)
	c.SenseY = append([]float64(nil), p.SenseY...)

	return c
}

// AssociationString returns space separated IDs of associated landmarks.
func (p Particle) AssociationString() string {
	s := make([]string, len(p.Associations))
	for i, id := range p.Associations {
		s[i] = strconv.Itoa(id)
	}

	return strings.Join(s, " ")
}

// SenseString returns space separated sense coordinates along axis a.
func (p Particle) SenseString(a Axis) string {
	v := p.SenseX
	if a == AxisY {
		v = p.SenseY
	}

	s := make([]string, len(v))
	for i, c := range v {
		s[i] = strconv.FormatFloat(c, 'g', 6, 32)
	}

	return strings.Join(s, " ")
}

// String implements the Stringer interface.
func (p Particle) String() string {
	return fmt.Sprintf("Particle{ID=%d X=%g Y=%g Theta=%g Weight=%g}", p.ID, p.X, p.Y, p.Theta, p.Weight)
}
