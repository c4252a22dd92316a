package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/rcpsp/core/formulation"
	"github.com/kilianp07/rcpsp/core/milp"
)

// Family names accepted in GeneratorConfig.Families.
const (
	FamilyPrecedence     = "precedence"
	FamilyMakespan       = "makespan"
	FamilyDisjunctive    = "disjunctive"
	FamilyUnavailability = "unavailability"
	FamilyTimeIndexed    = "time_indexed"
)

// WindowConfig blocks resource Resource during [From, To).
type WindowConfig struct {
	Resource int `json:"resource" yaml:"resource"`
	From     int `json:"from" yaml:"from"`
	To       int `json:"to" yaml:"to"`
}

// TimeCapacityConfig caps resource Resource at Capacity during time Time.
type TimeCapacityConfig struct {
	Resource int `json:"resource" yaml:"resource"`
	Time     int `json:"time" yaml:"time"`
	Capacity int `json:"capacity" yaml:"capacity"`
}

// GeneratorConfig selects the constraint families and their data. Pointer
// fields distinguish an explicit zero from an unset value.
type GeneratorConfig struct {
	Families       []string             `json:"families" yaml:"families"`
	StartKind      string               `json:"start_kind" yaml:"start_kind"`
	StartCost      *float64             `json:"start_cost" yaml:"start_cost"`
	BigMSlack      *float64             `json:"big_m_slack" yaml:"big_m_slack"`
	CoverActivity  *bool                `json:"cover_activity" yaml:"cover_activity"`
	Unavailability []WindowConfig       `json:"unavailability" yaml:"unavailability"`
	TimeCapacity   []TimeCapacityConfig `json:"time_capacity" yaml:"time_capacity"`
}

// SetDefaults enables every family with the generator defaults.
func (c *GeneratorConfig) SetDefaults() {
	if len(c.Families) == 0 {
		c.Families = []string{FamilyPrecedence, FamilyMakespan, FamilyDisjunctive, FamilyUnavailability, FamilyTimeIndexed}
	}
	if c.StartKind == "" {
		c.StartKind = milp.Integer.String()
	}
	if c.StartCost == nil {
		v := float64(formulation.DefaultStartCost)
		c.StartCost = &v
	}
	if c.BigMSlack == nil {
		v := float64(formulation.DefaultBigMSlack)
		c.BigMSlack = &v
	}
	if c.CoverActivity == nil {
		v := true
		c.CoverActivity = &v
	}
}

// Validate checks names and value ranges that do not depend on an instance.
func (c GeneratorConfig) Validate() error {
	for _, f := range c.Families {
		switch f {
		case FamilyPrecedence, FamilyMakespan, FamilyDisjunctive, FamilyUnavailability, FamilyTimeIndexed:
		default:
			return fmt.Errorf("unknown family %q", f)
		}
	}
	kind, err := milp.ParseVarKind(c.StartKind)
	if err != nil {
		return err
	}
	if kind == milp.Binary {
		return fmt.Errorf("start_kind cannot be binary")
	}
	if c.StartCost != nil && *c.StartCost < 0 {
		return fmt.Errorf("start_cost must be >= 0")
	}
	if c.BigMSlack != nil && *c.BigMSlack < 0 {
		return fmt.Errorf("big_m_slack must be >= 0")
	}
	for _, w := range c.Unavailability {
		if w.From >= w.To {
			return fmt.Errorf("unavailability window [%d, %d) on resource %d is empty", w.From, w.To, w.Resource)
		}
	}
	for _, tc := range c.TimeCapacity {
		if tc.Time < 0 {
			return fmt.Errorf("time_capacity time %d on resource %d is negative", tc.Time, tc.Resource)
		}
	}
	return nil
}

// Build converts the section to a generator configuration. Duplicate
// time_capacity entries keep the last value.
func (c GeneratorConfig) Build() (formulation.Config, error) {
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return formulation.Config{}, err
	}
	cfg := formulation.DefaultConfig()
	cfg.Families = formulation.Families{}
	for _, f := range c.Families {
		switch f {
		case FamilyPrecedence:
			cfg.Families.Precedence = true
		case FamilyMakespan:
			cfg.Families.Makespan = true
		case FamilyDisjunctive:
			cfg.Families.Disjunctive = true
		case FamilyUnavailability:
			cfg.Families.Unavailability = true
		case FamilyTimeIndexed:
			cfg.Families.TimeIndexed = true
		}
	}
	cfg.StartKind, _ = milp.ParseVarKind(c.StartKind)
	cfg.StartCost = *c.StartCost
	cfg.BigMSlack = *c.BigMSlack
	cfg.CoverActivity = *c.CoverActivity
	if len(c.Unavailability) > 0 {
		cfg.Unavailability = make(map[int][]formulation.Window)
		for _, w := range c.Unavailability {
			cfg.Unavailability[w.Resource] = append(cfg.Unavailability[w.Resource], formulation.Window{From: w.From, To: w.To})
		}
	}
	if len(c.TimeCapacity) > 0 {
		cfg.TimeCapacity = make(map[int]map[int]int)
		for _, tc := range c.TimeCapacity {
			if cfg.TimeCapacity[tc.Resource] == nil {
				cfg.TimeCapacity[tc.Resource] = make(map[int]int)
			}
			cfg.TimeCapacity[tc.Resource][tc.Time] = tc.Capacity
		}
	}
	return cfg, nil
}

// LoadGeneratorProfile loads a standalone generator section from a JSON or YAML file.
func LoadGeneratorProfile(path string) (GeneratorConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return GeneratorConfig{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeGeneratorProfile(f, ext)
}

// DecodeGeneratorProfile reads a generator section from r.
func DecodeGeneratorProfile(r io.Reader, format string) (GeneratorConfig, error) {
	var cfg GeneratorConfig
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
