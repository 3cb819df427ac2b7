package envtools

import (
	"errors"

	"github.com/unixpickle/essentials"
)

// A VecEnv runs a batch of environment replicas behind a
// single stepping interface.
//
// When a replica's episode ends, Step resets that replica
// and returns the fresh observation along with done=true.
type VecEnv interface {
	// NumEnvs returns the number of replicas.
	NumEnvs() int

	// Reset resets every replica.
	Reset() ([][]float64, error)

	// Step steps every replica with its own action.
	Step(actions [][]float64) (obs [][]float64, rewards []float64,
		dones []bool, err error)

	// Close tears down every replica.
	Close() error
}

// MakeVecEnv builds n replicas of an environment and
// exposes them as one batched VecEnv.
//
// Replica i receives seed cfg.Seed + startIndex + i (plus
// a per-rank offset that keeps distributed worker groups
// seed-disjoint); with a nil seed no replica is seeded.
//
// With n > 1, each replica is constructed and stepped by
// its own worker; with n == 1 a single in-process replica
// is used.
func MakeVecEnv(id, family string, n, startIndex int,
	cfg *Config) (venv VecEnv, err error) {
	defer essentials.AddCtxTo("make vec env "+id, &err)
	if n < 1 {
		return nil, errors.New("replica count must be positive")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	shared := cfg.clone()
	if shared.Rank == 0 {
		shared.Rank = Rank()
	}
	shared.Seed = rankSeed(cfg.Seed, shared.Rank)

	thunks := make([]func() (Env, error), n)
	for i := range thunks {
		replicaCfg := shared.clone()
		replicaCfg.Replica = startIndex + i
		thunks[i] = func() (Env, error) {
			return MakeEnv(id, family, replicaCfg)
		}
	}

	if n == 1 {
		env, err := thunks[0]()
		if err != nil {
			return nil, err
		}
		return &dummyVecEnv{env: env}, nil
	}
	return newWorkerVecEnv(thunks), nil
}

// dummyVecEnv runs a single replica in-process.
type dummyVecEnv struct {
	env Env
}

func (d *dummyVecEnv) NumEnvs() int {
	return 1
}

func (d *dummyVecEnv) Reset() ([][]float64, error) {
	obs, err := d.env.Reset()
	if err != nil {
		return nil, err
	}
	return [][]float64{obs}, nil
}

func (d *dummyVecEnv) Step(actions [][]float64) ([][]float64, []float64,
	[]bool, error) {
	if len(actions) != 1 {
		return nil, nil, nil, errors.New("step: expected exactly 1 action")
	}
	obs, rew, done, err := d.env.Step(actions[0])
	if err != nil {
		return nil, nil, nil, err
	}
	if done {
		obs, err = d.env.Reset()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return [][]float64{obs}, []float64{rew}, []bool{done}, nil
}

func (d *dummyVecEnv) Close() error {
	return d.env.Close()
}
