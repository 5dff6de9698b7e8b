package particle

import (
	filter "github.com/milosgajdos/go-localize"
	"gonum.org/v1/gonum/mat"
)

// Filter is a particle localization filter
type Filter interface {
	// filter.Localizer is landmark map localization filter
	filter.Localizer
	// Resample draws a new particle population proportionally to particle weights
	Resample() error
	// Weights returns particle weights
	Weights() mat.Vector
	// Particles returns particle states stored in matrix columns
	Particles() mat.Matrix
}
