// Package envtools builds reinforcement learning
// environments for training scripts.
//
// It knows how to construct environments from several
// families (Atari-style games, generic gym environments,
// retro console games), wrap them in a standard chain of
// adapters (observation flattening, episode monitoring,
// family-specific post-processing, reward scaling), and
// replicate them into a batched, vectorized interface.
package envtools

import (
	"io"

	"github.com/unixpickle/anyrl"
)

// Env is an environment with a Close() method for
// releasing the environment's resources.
type Env interface {
	io.Closer
	anyrl.Env
}

// A DictEnv is an environment whose observations are
// dictionaries from names to vectors rather than flat
// vectors.
//
// A DictEnv is not directly steppable by code expecting
// an Env; use FlattenEnv to adapt it.
type DictEnv interface {
	io.Closer
	Reset() (map[string][]float64, error)
	Step(action []float64) (obs map[string][]float64, reward float64,
		done bool, err error)
}

// A Seeder is an environment with a controllable source
// of randomness.
type Seeder interface {
	Seed(seed int64) error
}

// A ParamUpdater is a task environment that accepts
// runtime parameter updates, e.g. to configure trial
// structure before the first reset.
type ParamUpdater interface {
	UpdateParams(params map[string]string) error
}

// An Unwrapper is a wrapper environment which exposes
// the environment it wraps.
//
// The result may be an Env or a DictEnv.
type Unwrapper interface {
	Unwrap() interface{}
}

// Unwrap returns the environment inside a wrapper, or
// nil if env is not a wrapper.
func Unwrap(env interface{}) interface{} {
	if u, ok := env.(Unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}

// FindSeeder searches env and the environments it wraps
// for a Seeder.
func FindSeeder(env interface{}) (Seeder, bool) {
	for env != nil {
		if s, ok := env.(Seeder); ok {
			return s, true
		}
		env = Unwrap(env)
	}
	return nil, false
}

// FindParamUpdater searches env and the environments it
// wraps for a ParamUpdater.
func FindParamUpdater(env interface{}) (ParamUpdater, bool) {
	for env != nil {
		if p, ok := env.(ParamUpdater); ok {
			return p, true
		}
		env = Unwrap(env)
	}
	return nil, false
}

// CloseEnvs closes every environment in the list.
func CloseEnvs(envs []Env) {
	for _, e := range envs {
		e.Close()
	}
}
