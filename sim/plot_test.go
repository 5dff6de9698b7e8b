package sim

import (
	"testing"

	"github.com/milosgajdos/go-localize/landmark"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewRunPlot(t *testing.T) {
	assert := assert.New(t)

	lms, err := landmark.NewMap([]landmark.Landmark{{ID: 1, X: 1, Y: 1}, {ID: 2, X: 5, Y: 3}})
	assert.NoError(err)

	truth := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	filter := mat.NewDense(3, 2, []float64{0.1, 0, 1.1, 0.9, 2, 2.1})
	particles := mat.NewDense(3, 4, nil)

	plt, err := NewRunPlot(lms, truth, filter, particles)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = NewRunPlot(lms, truth, filter, nil)
	assert.NotNil(plt)
	assert.NoError(err)

	plt, err = NewRunPlot(nil, nil, nil, nil)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = NewRunPlot(lms, mat.NewDense(3, 1, nil), filter, nil)
	assert.Nil(plt)
	assert.Error(err)

	plt, err = NewRunPlot(lms, truth, filter, mat.NewDense(1, 4, nil))
	assert.Nil(plt)
	assert.Error(err)
}
