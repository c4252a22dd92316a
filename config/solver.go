package config

import (
	"fmt"
	"time"
)

// SolverConfig bounds the reference branch-and-bound solver.
type SolverConfig struct {
	// NodeLimit caps the number of explored nodes.
	NodeLimit int `json:"node_limit" yaml:"node_limit"`
	// TimeLimitSeconds caps the wall time of one solve; zero disables the limit.
	TimeLimitSeconds int `json:"time_limit_seconds" yaml:"time_limit_seconds"`
	// Tolerance is the integrality tolerance.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// SetDefaults applies fallback values for optional fields.
func (c *SolverConfig) SetDefaults() {
	if c.NodeLimit <= 0 {
		c.NodeLimit = 20000
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-6
	}
}

// Validate checks the configuration ranges.
func (c SolverConfig) Validate() error {
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time_limit_seconds must be >= 0")
	}
	if c.Tolerance >= 0.5 {
		return fmt.Errorf("tolerance must be below 0.5")
	}
	return nil
}

// TimeLimit returns the time limit as a duration.
func (c SolverConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitSeconds) * time.Second
}
