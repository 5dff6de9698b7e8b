package rand

import (
	"errors"
	"fmt"
	"math"
	"sort"

	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrZeroWeights is returned when all probability weights are zero.
var ErrZeroWeights = errors.New("all probability weights are zero")

// WithCovN draws n random samples from a zero-mean Normal (aka Gaussian) distribution with covariance cov
// using the random source src. If src is nil the global source is used.
// It returns matrix which contains the randomly generated samples stored in its columns.
// It fails with error if n is non-positive, if cov contains non-finite values
// or if SVD factorization of cov fails.
func WithCovN(cov mat.Symmetric, n int, src rnd.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	// SVD does not converge on NaN or Inf input
	size := cov.SymmetricDim()
	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			if v := cov.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("invalid covariance value %f at [%d, %d]", v, i, j)
			}
		}
	}

	// Use SVD instead of Cholesky as Cholesky fails if cov is (almost) singular
	// which is the case of zero noise on any of the axes
	var svd mat.SVD
	ok := svd.Factorize(cov, mat.SVDFull)
	if !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	U := new(mat.Dense)
	svd.UTo(U)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(vals[i])
	}
	diag := mat.NewDiagDense(len(vals), vals)
	U.Mul(U, diag)

	norm := normFloat64(src)
	rows := cov.SymmetricDim()
	data := make([]float64, rows*n)
	for i := range data {
		data[i] = norm()
	}
	samples := mat.NewDense(rows, n, data)
	samples.Mul(U, samples)

	return samples, nil
}

// RouletteDrawN draws n numbers randomly from a probability mass function (PMF) defined by weights in p
// using the random source src. If src is nil the global source is used.
// RouletteDrawN implements the Roulette Wheel Draw a.k.a. Fitness Proportionate Selection:
// - https://en.wikipedia.org/wiki/Fitness_proportionate_selection
// - http://www.keithschwarz.com/darts-dice-coins/
// The weights do not need to be normalized.
// It returns a slice of n indices into p.
// It fails with error if p is empty, if any weight is negative or not finite,
// and with ErrZeroWeights if all the weights are zero.
func RouletteDrawN(p []float64, n int, src rnd.Source) ([]int, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("invalid probability weights: %v", p)
	}

	if n < 0 {
		return nil, fmt.Errorf("invalid number of draws requested: %d", n)
	}

	for i, w := range p {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("invalid probability weight %f at index %d", w, i)
		}
	}

	// Initialization: create the discrete CDF
	// We know that cdf is sorted in ascending order
	cdf := make([]float64, len(p))
	floats.CumSum(cdf, p)

	total := cdf[len(cdf)-1]
	if total == 0 {
		return nil, ErrZeroWeights
	}

	// Generation:
	// 1. Generate a uniformly-random value x in the range [0,1)
	// 2. Using a binary search, find the index of the smallest element in cdf larger than x
	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}
	var val float64
	indices := make([]int, n)
	for i := range indices {
		// multiply the sample with the largest CDF value; easier than normalizing to [0,1)
		val = unit.Rand() * total
		// Search returns the smallest index i such that cdf[i] > val
		indices[i] = sort.Search(len(cdf), func(i int) bool { return cdf[i] > val })
		// guard against val rounding up to total
		if indices[i] == len(cdf) {
			indices[i] = lastPositive(p)
		}
	}

	return indices, nil
}

// UniformDrawN draws n indices from [0, size) with equal probability
// using the random source src. If src is nil the global source is used.
// It fails with error if size is non-positive.
func UniformDrawN(size, n int, src rnd.Source) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid population size: %d", size)
	}

	if n < 0 {
		return nil, fmt.Errorf("invalid number of draws requested: %d", n)
	}

	intn := rnd.Intn
	if src != nil {
		intn = rnd.New(src).Intn
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = intn(size)
	}

	return indices, nil
}

func normFloat64(src rnd.Source) func() float64 {
	if src == nil {
		return rnd.NormFloat64
	}

	return rnd.New(src).NormFloat64
}

func lastPositive(p []float64) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] > 0 {
			return i
		}
	}

	return len(p) - 1
}
