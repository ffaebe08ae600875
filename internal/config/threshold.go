package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sandlife/pkg/core"
)

// Threshold is a topple threshold; zero means "auto", the topology's
// maximum neighbour count.
type Threshold int32

// ThresholdAuto selects the neighbour count of interior cells.
const ThresholdAuto Threshold = 0

// ParseThreshold accepts "auto" or a positive integer.
func ParseThreshold(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return ThresholdAuto, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(core.ErrConfiguration, "topple_threshold %q is neither auto nor a positive integer", s)
	}
	return Threshold(n), nil
}

func (t Threshold) String() string {
	if t == ThresholdAuto {
		return "auto"
	}
	return strconv.Itoa(int(t))
}

// UnmarshalYAML accepts either a scalar integer or the string "auto".
func (t *Threshold) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseThreshold(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML writes "auto" or the integer.
func (t Threshold) MarshalYAML() (any, error) {
	if t == ThresholdAuto {
		return "auto", nil
	}
	return int(t), nil
}
