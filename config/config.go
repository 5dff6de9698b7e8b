// Package config loads particle filter localization configuration.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const (
	// DefaultParticleCount is the default number of filter particles
	DefaultParticleCount = 100
	// DefaultSensorRange is the default sensor range in map units
	DefaultSensorRange = 50.0
	// DefaultYawRateEpsilon is the default yaw rate below which motion is straight
	DefaultYawRateEpsilon = 0.001

	// maxFileSize limits the size of the configuration file
	maxFileSize = 1 * 1024 * 1024
)

// Config is particle filter localization configuration.
// Standard deviations are stored per axis: init and process noise as [x, y, theta],
// landmark measurement noise as [x, y].
type Config struct {
	// ParticleCount is the number of filter particles
	ParticleCount int `json:"particle_count"`
	// Seed seeds the filter random source; 0 seeds from time
	Seed uint64 `json:"seed,omitempty"`
	// InitStd is the uncertainty of the initial pose estimate
	InitStd []float64 `json:"init_std"`
	// ProcessStd is the process (motion) noise
	ProcessStd []float64 `json:"process_std"`
	// LandmarkStd is the landmark measurement noise
	LandmarkStd []float64 `json:"landmark_std"`
	// SensorRange is the maximum distance at which landmarks are observable
	SensorRange float64 `json:"sensor_range"`
	// YawRateEpsilon is the yaw rate magnitude below which motion is treated as straight
	YawRateEpsilon float64 `json:"yaw_rate_epsilon,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ParticleCount:  DefaultParticleCount,
		InitStd:        []float64{0.3, 0.3, 0.01},
		ProcessStd:     []float64{0.3, 0.3, 0.01},
		LandmarkStd:    []float64{0.3, 0.3},
		SensorRange:    DefaultSensorRange,
		YawRateEpsilon: DefaultYawRateEpsilon,
	}
}

// Load loads Config from a JSON file at path.
// Fields omitted from the file keep their default values.
// It returns error if the file is not a reasonably sized JSON file or if the configuration is invalid.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.ParticleCount <= 0 {
		return fmt.Errorf("particle_count must be positive, got %d", c.ParticleCount)
	}

	if err := validStd("init_std", c.InitStd, 3, false); err != nil {
		return err
	}
	if err := validStd("process_std", c.ProcessStd, 3, false); err != nil {
		return err
	}
	// landmark likelihood is undefined for zero measurement noise
	if err := validStd("landmark_std", c.LandmarkStd, 2, true); err != nil {
		return err
	}

	if c.SensorRange <= 0 || math.IsInf(c.SensorRange, 0) || math.IsNaN(c.SensorRange) {
		return fmt.Errorf("sensor_range must be positive and finite, got %f", c.SensorRange)
	}

	if c.YawRateEpsilon < 0 {
		return fmt.Errorf("yaw_rate_epsilon must be non-negative, got %f", c.YawRateEpsilon)
	}

	return nil
}

func validStd(name string, std []float64, size int, positive bool) error {
	if len(std) != size {
		return fmt.Errorf("%s must have %d elements, got %d", name, size, len(std))
	}

	for _, s := range std {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || (positive && s == 0) {
			return fmt.Errorf("%s contains invalid standard deviation: %f", name, s)
		}
	}

	return nil
}
