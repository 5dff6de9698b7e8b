package noise

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Diagonal is gaussian noise with independent components.
// Unlike Gaussian it allows zero standard deviation on any of its components.
type Diagonal struct {
	// dists are per component normal distributions
	dists []distuv.Normal
	// cov is diagonal covariance
	cov *mat.SymDense
}

// NewDiagonal creates new Diagonal noise with given mean and per component standard deviations std.
// Samples are drawn from src; if src is nil the global source is used.
// It returns error if mean and std lengths differ, if they are empty or if std contains negative values.
func NewDiagonal(mean, std []float64, src rand.Source) (*Diagonal, error) {
	if len(mean) == 0 || len(mean) != len(std) {
		return nil, fmt.Errorf("invalid noise dimensions: mean %d, std %d", len(mean), len(std))
	}

	dists := make([]distuv.Normal, len(std))
	cov := mat.NewSymDense(len(std), nil)
	for i, s := range std {
		if s < 0 || math.IsNaN(s) {
			return nil, fmt.Errorf("invalid standard deviation: %f", s)
		}
		dists[i] = distuv.Normal{Mu: mean[i], Sigma: s, Src: src}
		cov.SetSym(i, i, s*s)
	}

	return &Diagonal{
		dists: dists,
		cov:   cov,
	}, nil
}

// Sample generates a sample from Diagonal noise and returns it.
func (d *Diagonal) Sample() mat.Vector {
	data := make([]float64, len(d.dists))
	for i := range d.dists {
		data[i] = d.dists[i].Rand()
	}

	return mat.NewVecDense(len(data), data)
}

// Cov returns diagonal covariance matrix of the noise.
func (d *Diagonal) Cov() mat.Symmetric {
	cov := mat.NewSymDense(d.cov.SymmetricDim(), nil)
	cov.CopySym(d.cov)

	return cov
}

// Mean returns Diagonal mean.
func (d *Diagonal) Mean() []float64 {
	mean := make([]float64, len(d.dists))
	for i := range d.dists {
		mean[i] = d.dists[i].Mu
	}

	return mean
}

// Std returns per component standard deviations.
func (d *Diagonal) Std() []float64 {
	std := make([]float64, len(d.dists))
	for i := range d.dists {
		std[i] = d.dists[i].Sigma
	}

	return std
}

// Reset does nothing: the underlying source is owned by the caller.
func (d *Diagonal) Reset() {}

// String implements the Stringer interface.
func (d *Diagonal) String() string {
	return fmt.Sprintf("Diagonal{\nMean=%v\nStd=%v\n}", d.Mean(), d.Std())
}
