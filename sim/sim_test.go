package sim

import (
	"math"
	"testing"

	"github.com/milosgajdos/go-localize/landmark"
	"github.com/milosgajdos/go-localize/model"
	"github.com/milosgajdos/go-localize/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestNewLandmarkMap(t *testing.T) {
	assert := assert.New(t)

	m, err := NewLandmarkMap(50, 100, 20, rand.NewSource(1))
	assert.NoError(err)
	assert.Equal(50, m.Len())
	for i, lm := range m.Landmarks() {
		assert.Equal(i+1, lm.ID)
		assert.True(lm.X >= 0 && lm.X < 100)
		assert.True(lm.Y >= 0 && lm.Y < 20)
	}

	m, err = NewLandmarkMap(-1, 100, 100, nil)
	assert.Nil(m)
	assert.Error(err)

	m, err = NewLandmarkMap(10, 0, 100, nil)
	assert.Nil(m)
	assert.Error(err)
}

func TestVehicle(t *testing.T) {
	assert := assert.New(t)

	m := model.NewUnicycle(0)
	x := mat.NewVecDense(3, []float64{1, 2, math.Pi / 2})

	v, err := NewVehicle(m, x, nil)
	require.NoError(t, err)

	assert.NoError(v.Step(mat.NewVecDense(2, []float64{2, 0}), 0.5))
	pose := v.Pose()
	assert.InDelta(1.0, pose.AtVec(0), 1e-12)
	assert.InDelta(3.0, pose.AtVec(1), 1e-12)
	assert.InDelta(math.Pi/2, pose.AtVec(2), 1e-12)

	// the initial pose is not modified
	assert.Equal(2.0, x.AtVec(1))

	assert.Error(v.Step(mat.NewVecDense(2, []float64{2, 0}), 0))

	q, err := noise.NewDiagonal([]float64{0, 0, 0}, []float64{0.1, 0.1, 0.01}, rand.NewSource(3))
	require.NoError(t, err)
	v, err = NewVehicle(m, x, q)
	require.NoError(t, err)
	assert.NoError(v.Step(mat.NewVecDense(2, []float64{2, 0}), 0.5))
	assert.NotEqual(3.0, v.Pose().AtVec(1))

	// zero noise moves the vehicle exactly
	zero, err := noise.NewZero(3)
	require.NoError(t, err)
	v, err = NewVehicle(m, x, zero)
	require.NoError(t, err)
	assert.NoError(v.Step(mat.NewVecDense(2, []float64{2, 0}), 0.5))
	assert.InDelta(3.0, v.Pose().AtVec(1), 1e-12)

	v, err = NewVehicle(m, mat.NewVecDense(2, nil), nil)
	assert.Nil(v)
	assert.Error(err)

	bad, err := noise.NewZero(2)
	require.NoError(t, err)
	v, err = NewVehicle(m, x, bad)
	assert.Nil(v)
	assert.Error(err)
}

func TestSensor(t *testing.T) {
	assert := assert.New(t)

	lms, err := landmark.NewMap([]landmark.Landmark{
		{ID: 1, X: 6, Y: 1},
		{ID: 2, X: 2, Y: 1},
		{ID: 3, X: 40, Y: 40},
	})
	require.NoError(t, err)

	s, err := NewSensor(10, nil)
	require.NoError(t, err)

	pose := mat.NewVecDense(3, []float64{4, 5, -math.Pi / 2})
	z, err := s.Observe(pose, lms)
	assert.NoError(err)
	assert.Len(z, 2)

	// observations transformed back into the map frame hit the landmarks
	mz := landmark.Transform(z, 4, 5, -math.Pi/2)
	assert.InDelta(6.0, mz[0].X, 1e-9)
	assert.InDelta(1.0, mz[0].Y, 1e-9)
	assert.InDelta(2.0, mz[1].X, 1e-9)
	assert.InDelta(1.0, mz[1].Y, 1e-9)
	for _, o := range z {
		assert.Equal(landmark.Unassigned, o.ID)
	}

	_, err = s.Observe(mat.NewVecDense(2, nil), lms)
	assert.Error(err)

	r, err := noise.NewDiagonal([]float64{0, 0}, []float64{0.3, 0.3}, rand.NewSource(5))
	require.NoError(t, err)
	s, err = NewSensor(10, r)
	require.NoError(t, err)
	noisy, err := s.Observe(pose, lms)
	assert.NoError(err)
	assert.Len(noisy, 2)
	assert.NotEqual(z[0].X, noisy[0].X)

	s, err = NewSensor(0, nil)
	assert.Nil(s)
	assert.Error(err)

	bad, err := noise.NewZero(3)
	require.NoError(t, err)
	s, err = NewSensor(10, bad)
	assert.Nil(s)
	assert.Error(err)
}

func TestGPS(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewVecDense(3, []float64{1, 2, 0.5})

	g := &GPS{}
	z, err := g.Measure(x)
	assert.NoError(err)
	assert.True(mat.Equal(x, z))

	cov := mat.NewSymDense(3, []float64{0.09, 0, 0, 0, 0.09, 0, 0, 0, 0.0001})
	n, err := noise.NewGaussian([]float64{0, 0, 0}, cov, rand.NewSource(9))
	require.NoError(t, err)
	g = &GPS{Noise: n}
	z, err = g.Measure(x)
	assert.NoError(err)
	assert.False(mat.Equal(x, z))
	assert.InDelta(1.0, z.AtVec(0), 2)

	bad, err := noise.NewZero(2)
	require.NoError(t, err)
	g = &GPS{Noise: bad}
	z, err = g.Measure(x)
	assert.Nil(z)
	assert.Error(err)
}
