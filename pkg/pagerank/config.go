package pagerank

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrEmptyGraph    = errors.New("graph has no nodes")
)

// ConfigurationError reports an engine parameter outside its valid range
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

type Config struct {
	Damping       float64 `json:"damping"`        // Probability of following a link, in [0, 1)
	Tolerance     float64 `json:"tolerance"`      // Convergence threshold on the max per-node change
	MaxIterations int     `json:"max_iterations"` // Hard cap on the number of sweeps
}

func DefaultConfig() Config {
	return Config{
		Damping:       DefaultDamping,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.Damping) || c.Damping < 0 || c.Damping >= 1 {
		return &ConfigurationError{Field: "damping", Value: c.Damping, Reason: "must be in range [0, 1)"}
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
		return &ConfigurationError{Field: "tolerance", Value: c.Tolerance, Reason: "must be greater than 0"}
	}
	if c.MaxIterations < 1 {
		return &ConfigurationError{Field: "max iterations", Value: c.MaxIterations, Reason: "must be at least 1"}
	}
	return nil
}
