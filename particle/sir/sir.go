package sir

import (
	"errors"
	"fmt"
	"math"
	"time"

	filter "github.com/milosgajdos/go-localize"
	"github.com/milosgajdos/go-localize/estimate"
	"github.com/milosgajdos/go-localize/landmark"
	"github.com/milosgajdos/go-localize/model"
	"github.com/milosgajdos/go-localize/monitoring"
	"github.com/milosgajdos/go-localize/rand"
	"github.com/milosgajdos/matrix"
	rnd "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// ErrNotInitialized is returned when the filter is used before it has been initialized.
var ErrNotInitialized = errors.New("particle filter not initialized")

// Config is SIR particle filter configuration
type Config struct {
	// Model propagates particle poses; if nil model.Unicycle with default yaw rate threshold is used
	Model filter.Propagator
	// Map is the known landmark map
	Map *landmark.Map
	// ParticleCount is the number of filter particles
	ParticleCount int
	// Seed seeds the filter random source; 0 seeds the source from time
	Seed uint64
}

// PF is a Sequential Importance Resampling (SIR) particle filter
// which localizes an agent in a known landmark map.
// For more information about SIR particle filter see:
// https://en.wikipedia.org/wiki/Particle_filter#Sequential_importance_resampling_(SIR)
//
// PF is not safe for concurrent use.
type PF struct {
	// model propagates particle poses
	model filter.Propagator
	// lms is landmark map
	lms *landmark.Map
	// p stores filter particles
	p []Particle
	// src is the filter random source shared by all random draws
	src rnd.Source
	// initialized is set by Init
	initialized bool
}

// New creates new SIR particle filter with config c and returns it.
// The returned filter must be initialized with Init before it's used.
// It returns error if non-positive particle count is given, if the map is nil
// or if the model has invalid dimensions.
func New(c *Config) (*PF, error) {
	// must have at least one particle; can't be negative
	if c.ParticleCount <= 0 {
		return nil, fmt.Errorf("invalid particle count: %d", c.ParticleCount)
	}

	if c.Map == nil {
		return nil, fmt.Errorf("invalid landmark map: %v", c.Map)
	}

	m := c.Model
	if m == nil {
		m = model.NewUnicycle(model.DefaultYawRateEpsilon)
	}

	if nx, _ := m.Dims(); nx != model.PoseDim {
		return nil, fmt.Errorf("invalid model state dimension: %d", nx)
	}

	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &PF{
		model: m,
		lms:   c.Map,
		p:     make([]Particle, c.ParticleCount),
		src:   rnd.NewSource(seed),
	}, nil
}

// Init initializes filter particles by drawing them from a Gaussian distribution
// centered at the initial state ic.State() with covariance ic.Cov().
// All particle weights are set to 1.0. Init may be called repeatedly to reseed the filter.
// It returns error if the initial condition has invalid dimensions or if the particles fail to be generated.
func (f *PF) Init(ic filter.InitCond) error {
	state := ic.State()
	if state.Len() != model.PoseDim {
		return fmt.Errorf("invalid initial state dimension: %d", state.Len())
	}

	cov := ic.Cov()
	if cov.SymmetricDim() != model.PoseDim {
		return fmt.Errorf("invalid initial covariance dimension: %d", cov.SymmetricDim())
	}

	// draw particles from distribution with covariance ic.Cov()
	x, err := rand.WithCovN(cov, len(f.p), f.src)
	if err != nil {
		return fmt.Errorf("failed to generate filter particles: %v", err)
	}

	// center particles around initial state condition ic.State()
	for i := range f.p {
		f.p[i] = Particle{
			ID:     i,
			X:      x.At(0, i) + state.AtVec(0),
			Y:      x.At(1, i) + state.AtVec(1),
			Theta:  x.At(2, i) + state.AtVec(2),
			Weight: 1.0,
		}
	}

	f.initialized = true

	return nil
}

// Initialized returns true if the filter has been initialized.
func (f *PF) Initialized() bool {
	return f.initialized
}

// Len returns the number of filter particles.
func (f *PF) Len() int {
	return len(f.p)
}

// Predict propagates every filter particle over time step dt given control input u
// and adds independent zero-mean Gaussian noise with per axis standard deviations std
// to each of them. Particle weights are left unchanged.
// It returns error if the filter is not initialized, if std is invalid or if the particles fail to propagate.
func (f *PF) Predict(u mat.Vector, dt float64, std []float64) error {
	if !f.initialized {
		return ErrNotInitialized
	}

	if len(std) != model.PoseDim {
		return fmt.Errorf("invalid process noise dimension: %d", len(std))
	}

	cov, err := model.DiagCov(std)
	if err != nil {
		return fmt.Errorf("invalid process noise: %v", err)
	}

	// one noise sample per particle stored in matrix columns
	q, err := rand.WithCovN(cov, len(f.p), f.src)
	if err != nil {
		return fmt.Errorf("failed to draw process noise: %v", err)
	}

	xPred := make([]Particle, len(f.p))
	x := mat.NewVecDense(model.PoseDim, nil)
	for i := range f.p {
		x.SetVec(0, f.p[i].X)
		x.SetVec(1, f.p[i].Y)
		x.SetVec(2, f.p[i].Theta)

		xNext, err := f.model.Propagate(x, u, q.ColView(i), dt)
		if err != nil {
			return fmt.Errorf("particle state propagation failed: %v", err)
		}

		xPred[i] = f.p[i]
		xPred[i].X, xPred[i].Y, xPred[i].Theta = xNext.AtVec(0), xNext.AtVec(1), xNext.AtVec(2)
	}

	// update filter particles once all of them have been propagated
	f.p = xPred

	return nil
}

// Update updates particle weights using landmark observations z made in the agent frame.
// For every particle the observations are transformed into the map frame, associated with
// the nearest landmarks found within sensorRange of the particle and the particle weight is
// recomputed as a product of bivariate Gaussian likelihoods of the matched pairs with
// measurement noise standard deviations std: [std_x, std_y].
// Observations which are not matched to any landmark do not affect the weight,
// so particles with no landmarks in range end up with weight 1.0.
// It returns error if the filter is not initialized or if std or sensorRange are invalid.
func (f *PF) Update(z []landmark.Observation, std []float64, sensorRange float64) error {
	if !f.initialized {
		return ErrNotInitialized
	}

	errPDF, err := newLandmarkPDF(std)
	if err != nil {
		return err
	}

	if sensorRange < 0 || math.IsNaN(sensorRange) {
		return fmt.Errorf("invalid sensor range: %f", sensorRange)
	}

	inn := make([]float64, 2)
	for i := range f.p {
		p := &f.p[i]

		obs := landmark.Transform(z, p.X, p.Y, p.Theta)
		lms := f.lms.InRange(p.X, p.Y, sensorRange)
		landmark.Associate(lms, obs)

		p.Associations = p.Associations[:0]
		p.SenseX = p.SenseX[:0]
		p.SenseY = p.SenseY[:0]

		// accumulate log likelihood to avoid intermediate underflow
		logW := 0.0
		for _, o := range obs {
			if o.ID == landmark.Unassigned {
				continue
			}
			for _, lm := range lms {
				if o.ID != lm.ID {
					continue
				}
				inn[0] = o.X - lm.X
				inn[1] = o.Y - lm.Y
				logW += errPDF.LogProb(inn)
			}
			p.Associations = append(p.Associations, o.ID)
			p.SenseX = append(p.SenseX, o.X)
			p.SenseY = append(p.SenseY, o.Y)
		}

		p.Weight = math.Exp(logW)
	}

	return nil
}

// Resample draws a new particle population of the same size with replacement,
// picking every particle with probability proportional to its weight.
// The drawn particles keep their weights. If some weights overflowed to +Inf
// only those particles are drawn, uniformly. If all the weights are zero the
// particles are drawn uniformly.
// It returns error if the filter is not initialized or if the weights are invalid.
func (f *PF) Resample() error {
	if !f.initialized {
		return ErrNotInitialized
	}

	w := scaleWeights(f.weights())

	// randomly pick new particles based on their weights
	// rand.RouletteDrawN returns a slice of indices to f.p
	indices, err := rand.RouletteDrawN(w, len(w), f.src)
	if errors.Is(err, rand.ErrZeroWeights) {
		monitoring.Logf("all %d particle weights are zero: resampling uniformly", len(w))
		indices, err = rand.UniformDrawN(len(w), len(w), f.src)
	}
	if err != nil {
		return fmt.Errorf("failed to sample filter particles: %v", err)
	}

	p := make([]Particle, len(f.p))
	for i, idx := range indices {
		p[i] = f.p[idx].clone()
	}

	f.p = p

	return nil
}

// Run runs one filter cycle: Predict, Update and Resample.
// It returns error if any of the steps fails.
func (f *PF) Run(u mat.Vector, dt float64, qStd []float64, z []landmark.Observation, rStd []float64, sensorRange float64) error {
	if err := f.Predict(u, dt, qStd); err != nil {
		return err
	}

	if err := f.Update(z, rStd, sensorRange); err != nil {
		return err
	}

	return f.Resample()
}

// Best returns a copy of the particle with the highest weight.
// If more particles share the highest weight the first one is returned.
// It returns error if the filter is not initialized.
func (f *PF) Best() (Particle, error) {
	if !f.initialized {
		return Particle{}, ErrNotInitialized
	}

	best := 0
	for i := range f.p {
		if f.p[i].Weight > f.p[best].Weight {
			best = i
		}
	}

	return f.p[best].clone(), nil
}

// Estimate returns weighted mean pose of the filter particles together with particle covariance.
// Heading is averaged on the unit circle. If all weights are zero the particles are averaged with equal weights.
// It returns error if the filter is not initialized or if the estimate fails to be computed.
func (f *PF) Estimate() (filter.Estimate, error) {
	if !f.initialized {
		return nil, ErrNotInitialized
	}

	w := scaleWeights(f.weights())
	sum := floats.Sum(w)
	if sum == 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		for i := range w {
			w[i] = 1
		}
		sum = float64(len(w))
	}

	var x, y, sin, cos float64
	for i, p := range f.p {
		x += w[i] * p.X
		y += w[i] * p.Y
		s, c := math.Sincos(p.Theta)
		sin += w[i] * s
		cos += w[i] * c
	}

	val := mat.NewVecDense(model.PoseDim, []float64{x / sum, y / sum, math.Atan2(sin, cos)})

	// covariance needs at least two particles
	if len(f.p) < 2 {
		return estimate.NewBase(val)
	}

	cov, err := matrix.Cov(f.particles(), "cols")
	if err != nil {
		return nil, fmt.Errorf("failed to calculate covariance matrix: %v", err)
	}

	return estimate.NewBaseWithCov(val, cov)
}

// Particles returns particle poses stored in matrix columns: rows are x, y and theta.
func (f *PF) Particles() mat.Matrix {
	return f.particles()
}

// Weights returns a vector containing particle weights
func (f *PF) Weights() mat.Vector {
	data := f.weights()

	return mat.NewVecDense(len(data), data)
}

// Population returns a copy of filter particles.
func (f *PF) Population() []Particle {
	p := make([]Particle, len(f.p))
	for i := range f.p {
		p[i] = f.p[i].clone()
	}

	return p
}

// SetAssociations replaces diagnostic association data of the i-th particle.
// It returns error if i is out of range or if the slices have different lengths.
func (f *PF) SetAssociations(i int, ids []int, senseX, senseY []float64) error {
	if i < 0 || i >= len(f.p) {
		return fmt.Errorf("invalid particle index: %d", i)
	}

	if len(ids) != len(senseX) || len(ids) != len(senseY) {
		return fmt.Errorf("invalid association dimensions: ids %d, x %d, y %d", len(ids), len(senseX), len(senseY))
	}

	f.p[i].Associations = append([]int(nil), ids...)
	f.p[i].SenseX = append([]float64(nil), senseX...)
	f.p[i].SenseY = append([]float64(nil), senseY...)

	return nil
}

func (f *PF) particles() *mat.Dense {
	x := mat.NewDense(model.PoseDim, len(f.p), nil)
	for i, p := range f.p {
		x.Set(0, i, p.X)
		x.Set(1, i, p.Y)
		x.Set(2, i, p.Theta)
	}

	return x
}

func (f *PF) weights() []float64 {
	w := make([]float64, len(f.p))
	for i := range f.p {
		w[i] = f.p[i].Weight
	}

	return w
}

// scaleWeights divides weights in w by their maximum so that their sum can not overflow.
// If the maximum is +Inf the +Inf weights are set to 1 and the remaining valid weights to 0.
// Negative and NaN weights are left in place.
func scaleWeights(w []float64) []float64 {
	wMax := floats.Max(w)
	switch {
	case math.IsInf(wMax, 1):
		for i := range w {
			if math.IsInf(w[i], 1) {
				w[i] = 1
			} else if w[i] >= 0 {
				w[i] = 0
			}
		}
	case wMax > 0:
		for i := range w {
			w[i] /= wMax
		}
	}

	return w
}

// newLandmarkPDF returns zero-mean bivariate normal distribution with independent axes
// whose standard deviations are given by std.
func newLandmarkPDF(std []float64) (*distmv.Normal, error) {
	if len(std) != 2 {
		return nil, fmt.Errorf("invalid measurement noise dimension: %d", len(std))
	}

	for _, s := range std {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("invalid measurement noise: %v", std)
		}
	}

	cov := mat.NewSymDense(2, []float64{std[0] * std[0], 0, 0, std[1] * std[1]})
	pdf, ok := distmv.NewNormal([]float64{0, 0}, cov, nil)
	if !ok {
		return nil, fmt.Errorf("failed to create measurement noise PDF: %v", std)
	}

	return pdf, nil
}
