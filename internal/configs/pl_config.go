package config

import (
	"strings"

	"github.com/pkg/errors"
)

type Distr int

const (
	Uniform Distr = iota
	Normal
	Poisson
	SkewNormal
)

var distrNames = map[Distr]string{
	Uniform:    "uniform",
	Normal:     "normal",
	Poisson:    "poisson",
	SkewNormal: "skew-normal",
}

func (d Distr) String() string {
	if s, ok := distrNames[d]; ok {
		return s
	}
	return "unknown"
}

func ParseDistr(s string) (Distr, error) {
	for d, n := range distrNames {
		if strings.EqualFold(n, s) {
			return d, nil
		}
	}
	return Uniform, errors.Wrapf(ErrInvalidConfig, "unknown distribution %q", s)
}

// Synthetic controls how task lengths are generated when no dataset value is
// available. Uniform draws integers in [Min, Max]; the other distributions
// use Mean, Std and Skew and are redrawn when they fall outside [Min, Max].
type Synthetic struct {
	Distribution string  `yaml:"distribution" mapstructure:"distribution"`
	Min          int64   `yaml:"min" mapstructure:"min"`
	Max          int64   `yaml:"max" mapstructure:"max"`
	Mean         float64 `yaml:"mean" mapstructure:"mean"`
	Std          float64 `yaml:"std" mapstructure:"std"`
	Skew         float64 `yaml:"skew" mapstructure:"skew"`
}

const (
	DatasetSynthetic = "synthetic"
	DatasetFile      = "dataset"
	DatasetTrace     = "trace"
)

// Dataset selects where task lengths come from.
//
// In "dataset" mode a file named Prefix + count + Ext is read from Dir for
// every task count. In "trace" mode TracePath is read once and the whole
// trace is used as the workload regardless of the configured task counts.
type Dataset struct {
	Mode          string `yaml:"mode" mapstructure:"mode"`
	Dir           string `yaml:"dir" mapstructure:"dir"`
	Prefix        string `yaml:"prefix" mapstructure:"prefix"`
	Ext           string `yaml:"ext" mapstructure:"ext"`
	TracePath     string `yaml:"trace_path" mapstructure:"trace_path"`
	CommentMarker string `yaml:"comment_marker" mapstructure:"comment_marker"`
	// appended to scenario names, e.g. MOWS_SDSC
	Label string `yaml:"label" mapstructure:"label"`
}
