package harness

import (
	"github.com/Vincent-lau/schedbench/internal/simulator"
	"github.com/Vincent-lau/schedbench/internal/workload"
)

// Option configures a Harness in New.
type Option func(*Options)

type Options struct {
	Executor simulator.Executor
	Source   workload.Source
	// called after every trial, from the worker goroutine in parallel mode
	OnTrial func(TrialResult)
}

func NewOptions(opts ...Option) Options {
	o := Options{}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Executor replaces the default time-shared executor.
func Executor(e simulator.Executor) Option {
	return func(o *Options) {
		o.Executor = e
	}
}

// Source replaces the workload source picked from the dataset config.
func Source(s workload.Source) Option {
	return func(o *Options) {
		o.Source = s
	}
}

func OnTrial(f func(TrialResult)) Option {
	return func(o *Options) {
		o.OnTrial = f
	}
}
