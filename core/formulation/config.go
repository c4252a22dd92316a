package formulation

import (
	"fmt"
	"sort"

	"github.com/kilianp07/rcpsp/core/milp"
)

// Families toggles the constraint passes.
type Families struct {
	Precedence     bool
	Makespan       bool
	Disjunctive    bool
	Unavailability bool
	TimeIndexed    bool
}

// AllFamilies enables every pass.
func AllFamilies() Families {
	return Families{Precedence: true, Makespan: true, Disjunctive: true, Unavailability: true, TimeIndexed: true}
}

// Window is a half-open interval [From, To) during which a resource is
// unavailable.
type Window struct {
	From int
	To   int
}

// Config parameterises one generation. Unavailability and TimeCapacity are
// injected data and are never read from the instance file.
type Config struct {
	Families Families
	// StartKind is the domain of the start variables.
	StartKind milp.VarKind
	// StartCost is the objective coefficient of every start variable. A
	// small positive value prefers earlier starts among equal makespans.
	StartCost float64
	// BigMSlack is added to the sum of durations to obtain big-M.
	BigMSlack float64
	// Unavailability maps a resource index to its blocked windows.
	Unavailability map[int][]Window
	// TimeCapacity maps a resource index to capacity snapshots by time.
	TimeCapacity map[int]map[int]int
	// CoverActivity also forces the activity indicator to 1 whenever a task
	// overlaps a snapshot time, so snapshot capacities actually bind. It
	// assumes integer start times.
	CoverActivity bool
}

// Default values used by DefaultConfig.
const (
	DefaultStartCost = 1e-4
	DefaultBigMSlack = 1000
)

// DefaultConfig enables every family with integer starts.
func DefaultConfig() Config {
	return Config{
		Families:      AllFamilies(),
		StartKind:     milp.Integer,
		StartCost:     DefaultStartCost,
		BigMSlack:     DefaultBigMSlack,
		CoverActivity: true,
	}
}

// Validate checks the injected data against the instance dimensions.
func (c Config) Validate(nResources int) error {
	if c.BigMSlack < 0 {
		return fmt.Errorf("big-M slack must not be negative, got %g", c.BigMSlack)
	}
	if c.StartCost < 0 {
		return fmt.Errorf("start cost must not be negative, got %g", c.StartCost)
	}
	if c.StartKind == milp.Binary {
		return fmt.Errorf("start variables cannot be binary")
	}
	for r, windows := range c.Unavailability {
		if r < 0 || r >= nResources {
			return fmt.Errorf("unavailability: resource %d out of range [0, %d)", r, nResources)
		}
		for _, w := range windows {
			if w.From >= w.To {
				return fmt.Errorf("unavailability: resource %d window [%d, %d) is empty", r, w.From, w.To)
			}
		}
	}
	for r, snapshots := range c.TimeCapacity {
		if r < 0 || r >= nResources {
			return fmt.Errorf("time capacity: resource %d out of range [0, %d)", r, nResources)
		}
		for t := range snapshots {
			if t < 0 {
				return fmt.Errorf("time capacity: resource %d has negative time %d", r, t)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
