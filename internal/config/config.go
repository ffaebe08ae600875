// Package config describes how a simulation run is assembled: the mesh, the
// initial grid and the rule parameters. Values come from defaults, an
// optional YAML file and flag-style key=value overrides, in that order.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sandlife/pkg/core"
)

//go:embed default.yaml
var defaultYAML []byte

// Fill modes for the initial grid.
const (
	FillConstant = "constant"
	FillRandom   = "random"
	FillBinary   = "binary"
	FillCenter   = "center"
	FillExplicit = "explicit"
)

// Config controls topology, initial condition and rule of a run.
type Config struct {
	Kind         string  `yaml:"kind"`
	Shape        []int   `yaml:"shape"`
	Boundary     string  `yaml:"boundary"`
	Neighborhood string  `yaml:"neighborhood"`
	Adjacency    [][]int `yaml:"adjacency"`

	Rule               string    `yaml:"rule"`
	BirthThresholds    []int     `yaml:"birth_thresholds"`
	SurvivalThresholds []int     `yaml:"survival_thresholds"`
	States             int       `yaml:"states"`
	ToppleThreshold    Threshold `yaml:"topple_threshold"`

	Fill    string  `yaml:"fill"`
	Value   int32   `yaml:"value"`
	Min     int32   `yaml:"min"`
	Max     int32   `yaml:"max"`
	Density float64 `yaml:"density"`
	Values  []int32 `yaml:"values"`
	Seed    int64   `yaml:"seed"`

	MaxSteps int `yaml:"max_steps"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		return Config{
			Kind:     "grid",
			Shape:    []int{64, 64},
			Boundary: "fixed",
			Fill:     FillRandom,
			Max:      7,
			Seed:     1337,
			MaxSteps: 10000,
		}
	}
	return c
}

// Load reads a YAML file over base. Keys absent from the file keep the
// value they have in base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, errors.Wrapf(core.ErrConfiguration, "failed to parse config %s: %v", path, err)
	}
	return base, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs)
// on top of DefaultConfig. Invalid values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	for k, v := range cfg {
		_ = c.Set(k, v)
	}
	return c
}

// Apply sets every key of overrides and reports the first invalid entry.
func (c *Config) Apply(overrides map[string]string) error {
	for k, v := range overrides {
		if err := c.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns one key using the same names as the YAML file.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	bad := func(err error) error {
		return errors.Wrapf(core.ErrConfiguration, "%s=%q: %v", key, value, err)
	}
	switch key {
	case "kind":
		c.Kind = value
	case "shape", "size":
		shape, err := ParseShape(value)
		if err != nil {
			return bad(err)
		}
		c.Shape = shape
	case "w", "h":
		// Width and height address a 2-D shape.
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return bad(errors.New("want a positive integer"))
		}
		if len(c.Shape) != 2 {
			c.Shape = []int{n, n}
		}
		if key == "w" {
			c.Shape[1] = n
		} else {
			c.Shape[0] = n
		}
	case "boundary":
		c.Boundary = value
	case "neighborhood":
		c.Neighborhood = value
	case "rule":
		c.Rule = value
	case "birth", "birth_thresholds":
		ns, err := parseInts(value)
		if err != nil {
			return bad(err)
		}
		c.BirthThresholds = ns
	case "survival", "survival_thresholds":
		ns, err := parseInts(value)
		if err != nil {
			return bad(err)
		}
		c.SurvivalThresholds = ns
	case "states":
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad(err)
		}
		c.States = n
	case "topple_threshold", "threshold":
		t, err := ParseThreshold(value)
		if err != nil {
			return err
		}
		c.ToppleThreshold = t
	case "fill":
		c.Fill = value
	case "value":
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return bad(err)
		}
		c.Value = int32(n)
	case "min", "max":
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return bad(err)
		}
		if key == "min" {
			c.Min = int32(n)
		} else {
			c.Max = int32(n)
		}
	case "density":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return bad(errors.New("want a probability in [0,1]"))
		}
		c.Density = f
	case "seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return bad(err)
		}
		c.Seed = n
	case "max_steps", "steps":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return bad(errors.New("want a non-negative integer"))
		}
		c.MaxSteps = n
	default:
		return errors.Wrapf(core.ErrConfiguration, "unknown key %q", key)
	}
	return nil
}

// ParseShape reads "64x64", "4,4,4" or "16".
func ParseShape(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == 'X' || r == ',' })
	if len(fields) == 0 {
		return nil, errors.Errorf("empty shape %q", s)
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, errors.Errorf("bad dimension %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
