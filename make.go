package envtools

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/unixpickle/essentials"
)

// Config holds the optional knobs for constructing one
// environment instance.
type Config struct {
	// Replica distinguishes copies of the same
	// environment: it offsets the seed and names the
	// monitor file.
	Replica int

	// Seed is the base random seed, or nil to leave the
	// environment unseeded.
	Seed *int64

	// RewardScale multiplies every reward.
	// Zero means 1 (no scaling).
	RewardScale float64

	// GameState is an emulator save state to start from
	// (retro environments only).
	GameState string

	// FlattenDict requests that dictionary-shaped
	// observations be flattened into one vector.
	FlattenDict bool

	// Options holds family-specific settings which are
	// forwarded to the post-processing wrappers and to
	// environments that accept parameter updates.
	Options map[string]string

	// LogDir is where monitor files are written.
	// An empty value keeps episode statistics in memory
	// only.
	LogDir string

	// Rank identifies this process in a distributed
	// worker group. Zero means "detect from the
	// launcher's environment variables".
	Rank int

	// GymHost is the gym-socket-api server address.
	// An empty value means DefaultGymHost.
	GymHost string

	// Render requests on-screen rendering where the
	// backend supports it.
	Render bool

	// VideoDir is where episode recordings are stored,
	// if the backend can record.
	VideoDir string
}

// clone returns a copy of the config, so per-replica
// fields can be changed without aliasing.
func (c *Config) clone() *Config {
	res := *c
	return &res
}

// A Maker constructs the base environment for an
// identifier.
//
// The result must implement Env or DictEnv.
type Maker func(id string, cfg *Config) (io.Closer, error)

// A Family describes how one family of environments is
// constructed and post-processed.
type Family struct {
	// Make builds the base environment.
	Make Maker

	// Wrap applies the family's post-processing bundle.
	// A nil Wrap means no post-processing.
	Wrap func(env Env, opts map[string]string) (Env, error)
}

var (
	familiesLock sync.RWMutex
	families     = map[string]*Family{}

	makersLock sync.RWMutex
	makers     = map[string]Maker{}
)

// RegisterFamily registers an environment family under a
// name, replacing any previous registration.
//
// The "atari" and "gym" families are always registered;
// the "retro" family is registered by importing the retro
// subpackage.
func RegisterFamily(name string, f *Family) {
	familiesLock.Lock()
	defer familiesLock.Unlock()
	families[name] = f
}

// Register registers a local environment constructor
// under an identifier, making it available through the
// "gym" family's lookup.
func Register(id string, m Maker) {
	makersLock.Lock()
	defer makersLock.Unlock()
	makers[id] = m
}

func lookupFamily(name string) *Family {
	familiesLock.RLock()
	defer familiesLock.RUnlock()
	return families[name]
}

func lookupMaker(id string) Maker {
	makersLock.RLock()
	defer makersLock.RUnlock()
	return makers[id]
}

func init() {
	RegisterFamily("atari", &Family{Make: makeAtariEnv, Wrap: wrapAtari})
	RegisterFamily("gym", &Family{Make: makeGenericEnv})
}

// MakeEnv builds one fully-wrapped environment instance.
//
// The family must name a registered environment family.
// The identifier is resolved by the family itself; an
// unknown identifier fails with the lookup's error.
func MakeEnv(id, family string, cfg *Config) (env Env, err error) {
	defer essentials.AddCtxTo("make env "+id, &err)
	if cfg == nil {
		cfg = &Config{}
	}

	fam := lookupFamily(family)
	if fam == nil {
		if family == "retro" {
			return nil, errors.New("retro environments require importing " +
				"github.com/unixpickle/envtools/retro")
		}
		return nil, errors.New("unknown environment family: " + family)
	}

	base, err := fam.Make(id, cfg)
	if err != nil {
		return nil, err
	}
	switch e := base.(type) {
	case Env:
		env = e
	case DictEnv:
		if !cfg.FlattenDict {
			base.Close()
			return nil, errors.New("dictionary observations require flattening")
		}
		env = &FlattenEnv{Env: e}
	default:
		base.Close()
		return nil, fmt.Errorf("unusable environment type %T", base)
	}

	if seed := replicaSeed(cfg.Seed, cfg.Replica); seed != nil {
		if s, ok := FindSeeder(env); ok {
			if err := s.Seed(*seed); err != nil {
				env.Close()
				return nil, err
			}
		}
	}

	if len(cfg.Options) > 0 {
		if p, ok := FindParamUpdater(env); ok {
			if err := p.UpdateParams(cfg.Options); err != nil {
				env.Close()
				return nil, err
			}
		}
	}

	env = &Monitor{
		Env:     env,
		EnvID:   id,
		LogPath: monitorPath(cfg),
	}

	if fam.Wrap != nil {
		wrapped, err := fam.Wrap(env, cfg.Options)
		if err != nil {
			env.Close()
			return nil, err
		}
		env = wrapped
	}

	if cfg.RewardScale != 1 && cfg.RewardScale != 0 {
		env = &RewardScaleEnv{Env: env, Scale: cfg.RewardScale}
	}

	return env, nil
}

func monitorPath(cfg *Config) string {
	if cfg.LogDir == "" {
		return ""
	}
	rank := cfg.Rank
	if rank == 0 {
		rank = Rank()
	}
	name := fmt.Sprintf("%d.%d.monitor.csv", rank, cfg.Replica)
	return filepath.Join(cfg.LogDir, name)
}

// makeGenericEnv resolves an identifier through the
// universal lookup chain: locally registered
// constructors, then muniverse games, then the remote gym
// server.
func makeGenericEnv(id string, cfg *Config) (io.Closer, error) {
	if maker := lookupMaker(id); maker != nil {
		return maker(id, cfg)
	}
	if env, ok, err := makeMuniverseEnv(id, cfg); ok {
		return env, err
	}
	return DialGym(id, cfg)
}
