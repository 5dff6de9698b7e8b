package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewZero(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)

	e, err = NewZero(0)
	assert.NotNil(e)
	assert.NoError(err)

	e, err = NewZero(-10)
	assert.Nil(e)
	assert.Error(err)
}

func TestZeroMeanCov(t *testing.T) {
	assert := assert.New(t)

	size := 2
	mean := []float64{0, 0}
	cov := mat.NewSymDense(size, []float64{0, 0, 0, 0})

	e, err := NewZero(size)
	assert.NotNil(e)
	assert.NoError(err)

	eCov := e.Cov()
	assert.Equal(cov.SymmetricDim(), eCov.SymmetricDim())
	assert.True(mat.Equal(cov, eCov))

	assert.EqualValues(mean, e.Mean())

	e, err = NewZero(0)
	assert.NoError(err)
	assert.Equal(0, e.Cov().SymmetricDim())
	assert.Empty(e.Mean())
}

func TestZeroSample(t *testing.T) {
	assert := assert.New(t)

	e, err := NewZero(3)
	assert.NotNil(e)
	assert.NoError(err)

	sample := e.Sample()
	assert.Equal(3, sample.Len())
	for i := 0; i < sample.Len(); i++ {
		assert.Equal(0.0, sample.AtVec(i))
	}

	e.Reset()
	assert.True(mat.Equal(sample, e.Sample()))

	e, err = NewZero(0)
	assert.NoError(err)
	assert.Equal(0, e.Sample().Len())
}

func TestZeroString(t *testing.T) {
	assert := assert.New(t)

	str := `Zero{
Mean=[0 0]
Cov=⎡0  0⎤
    ⎣0  0⎦
}`

	e, err := NewZero(2)
	assert.NotNil(e)
	assert.NoError(err)
	assert.Equal(str, e.String())
}
