package policy

import (
	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

var (
	PlLogger = log.WithFields(log.Fields{"prefix": "placement"})

	ErrUnknownPolicy = errors.New("unknown policy")
)

// State is everything a policy may mutate while assigning. Rand is shared
// by all policies of a batch, so call order decides the draws each one gets.
type State struct {
	Rand   *rand.Rand
	Cursor *Cursor
}

func NewState(rng *rand.Rand) *State {
	return &State{Rand: rng, Cursor: &Cursor{}}
}

// Policy maps every task onto one resource of the pool.
type Policy interface {
	Name() string
	Assign(st *State, tasks []model.Task, resources []model.Resource) (model.Assignment, error)
}

type Options struct {
	MOWS config.MOWS
}

type factory func(Options) Policy

var policies = make(map[string]factory)

func register(name string, f factory) {
	policies[name] = f
}

// List returns the registered policy names in sorted order.
func List() []string {
	names := maps.Keys(policies)
	slices.Sort(names)
	return names
}

func New(name string, opts Options) (Policy, error) {
	f, ok := policies[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q (known: %v)", name, List())
	}
	return f(opts), nil
}

func checkInput(tasks []model.Task, resources []model.Resource) error {
	if len(resources) == 0 {
		return model.ErrEmptyPool
	}
	if len(tasks) == 0 {
		return model.ErrEmptyWorkload
	}
	return nil
}
