package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func TestNewDiagonal(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		mean []float64
		std  []float64
		ok   bool
	}{
		{mean: []float64{0, 0, 0}, std: []float64{0.3, 0.3, 0.01}, ok: true},
		{mean: []float64{0, 0}, std: []float64{0, 0}, ok: true},
		{mean: []float64{0, 0}, std: []float64{0.3}, ok: false},
		{mean: nil, std: nil, ok: false},
		{mean: []float64{0}, std: []float64{-1}, ok: false},
	} {
		d, err := NewDiagonal(test.mean, test.std, nil)
		if test.ok {
			assert.NotNil(d)
			assert.NoError(err)
			continue
		}
		assert.Nil(d)
		assert.Error(err)
	}
}

func TestDiagonalMeanCovStd(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDiagonal([]float64{1, 2}, []float64{0.5, 2}, nil)
	assert.NoError(err)

	assert.Equal([]float64{1, 2}, d.Mean())
	assert.Equal([]float64{0.5, 2}, d.Std())

	cov := d.Cov()
	assert.Equal(2, cov.SymmetricDim())
	assert.Equal(0.25, cov.At(0, 0))
	assert.Equal(4.0, cov.At(1, 1))
	assert.Equal(0.0, cov.At(0, 1))
}

func TestDiagonalSample(t *testing.T) {
	assert := assert.New(t)

	d, err := NewDiagonal([]float64{1, -1, 0}, []float64{0, 0, 0}, nil)
	assert.NoError(err)

	// zero std yields the mean exactly
	s := d.Sample()
	assert.Equal(1.0, s.AtVec(0))
	assert.Equal(-1.0, s.AtVec(1))
	assert.Equal(0.0, s.AtVec(2))

	d, err = NewDiagonal([]float64{0, 0}, []float64{1, 3}, rand.NewSource(11))
	assert.NoError(err)

	n := 20000
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		s := d.Sample()
		xs[i], ys[i] = s.AtVec(0), s.AtVec(1)
	}
	assert.InDelta(1.0, stat.StdDev(xs, nil), 0.05)
	assert.InDelta(3.0, stat.StdDev(ys, nil), 0.1)
	assert.InDelta(0.0, stat.Correlation(xs, ys, nil), 0.05)
}

func TestDiagonalString(t *testing.T) {
	assert := assert.New(t)

	str := `Diagonal{
Mean=[0 0]
Std=[1 2]
}`
	d, err := NewDiagonal([]float64{0, 0}, []float64{1, 2}, nil)
	assert.NoError(err)
	assert.Equal(str, d.String())
}
