package envtools

import (
	"errors"
	"math/rand"
)

// A NoopResetEnv starts every episode with a random
// number of no-op actions, making the initial state less
// predictable.
type NoopResetEnv struct {
	Env

	// MaxNoops is the maximum number of no-op steps.
	MaxNoops int

	// NoopAction is the action vector to repeat.
	NoopAction []float64

	rng *rand.Rand
}

// Reset resets the environment and plays the no-ops.
func (n *NoopResetEnv) Reset() (obs []float64, err error) {
	obs, err = n.Env.Reset()
	if err != nil {
		return
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	noops := n.rng.Intn(n.MaxNoops) + 1
	for i := 0; i < noops; i++ {
		var done bool
		obs, _, done, err = n.Env.Step(n.NoopAction)
		if err != nil {
			return
		}
		if done {
			obs, err = n.Env.Reset()
			if err != nil {
				return
			}
		}
	}
	return
}

// Seed seeds the no-op count generator and, if the
// wrapped environment supports seeding, the wrapped
// environment as well.
func (n *NoopResetEnv) Seed(seed int64) error {
	n.rng = rand.New(rand.NewSource(seed))
	if s, ok := FindSeeder(n.Env); ok {
		return s.Seed(seed)
	}
	return nil
}

// Unwrap returns the wrapped environment.
func (n *NoopResetEnv) Unwrap() interface{} {
	return n.Env
}

// A FireResetEnv presses a "fire" action after every
// reset, for games that wait for it before starting.
type FireResetEnv struct {
	Env

	// FireAction is the action vector to press once.
	FireAction []float64
}

// Reset resets the environment and presses fire.
func (f *FireResetEnv) Reset() (obs []float64, err error) {
	obs, err = f.Env.Reset()
	if err != nil {
		return
	}
	var done bool
	obs, _, done, err = f.Env.Step(f.FireAction)
	if err != nil {
		return
	}
	if done {
		obs, err = f.Env.Reset()
	}
	return
}

// Unwrap returns the wrapped environment.
func (f *FireResetEnv) Unwrap() interface{} {
	return f.Env
}

// A MaxSkipEnv repeats each action over several frames,
// summing the rewards and taking the element-wise max of
// the last two observations.
//
// If StickProb is non-zero, each repeated frame keeps the
// previous episode action with that probability instead
// of the requested one, as retro console games are
// conventionally trained.
type MaxSkipEnv struct {
	Env

	// Skip is the number of frames per action.
	Skip int

	// StickProb is the sticky-action probability.
	StickProb float64

	rng        *rand.Rand
	lastAction []float64
}

// Reset resets the environment.
func (m *MaxSkipEnv) Reset() ([]float64, error) {
	m.lastAction = nil
	return m.Env.Reset()
}

// Step repeats the action Skip times.
func (m *MaxSkipEnv) Step(action []float64) (obs []float64, reward float64,
	done bool, err error) {
	if m.Skip < 1 {
		return nil, 0, false, errors.New("step: frame skip must be positive")
	}
	var prevObs []float64
	for i := 0; i < m.Skip && !done; i++ {
		act := action
		if m.StickProb > 0 && m.lastAction != nil && m.stick() {
			act = m.lastAction
		}
		prevObs = obs
		var rew float64
		obs, rew, done, err = m.Env.Step(act)
		if err != nil {
			return
		}
		reward += rew
	}
	m.lastAction = action
	if prevObs != nil && len(prevObs) == len(obs) {
		maxed := make([]float64, len(obs))
		for i, x := range obs {
			if y := prevObs[i]; y > x {
				x = y
			}
			maxed[i] = x
		}
		obs = maxed
	}
	return
}

// Seed seeds the sticky-action generator and, if the
// wrapped environment supports seeding, the wrapped
// environment as well.
func (m *MaxSkipEnv) Seed(seed int64) error {
	m.rng = rand.New(rand.NewSource(seed))
	if s, ok := FindSeeder(m.Env); ok {
		return s.Seed(seed)
	}
	return nil
}

// Unwrap returns the wrapped environment.
func (m *MaxSkipEnv) Unwrap() interface{} {
	return m.Env
}

func (m *MaxSkipEnv) stick() bool {
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return m.rng.Float64() < m.StickProb
}

// A ClipRewardEnv replaces every reward with its sign.
type ClipRewardEnv struct {
	Env
}

// Step takes a step and clips the resulting reward.
func (c *ClipRewardEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	obs, rew, done, err := c.Env.Step(action)
	if rew > 0 {
		rew = 1
	} else if rew < 0 {
		rew = -1
	}
	return obs, rew, done, err
}

// Unwrap returns the wrapped environment.
func (c *ClipRewardEnv) Unwrap() interface{} {
	return c.Env
}

// A FrameStackEnv concatenates the last NumFrames
// observations into every observation it produces.
//
// After a reset, the initial observation is repeated to
// fill the stack.
type FrameStackEnv struct {
	Env

	// NumFrames is the stack depth.
	NumFrames int

	frames [][]float64
}

// Reset resets the environment and fills the stack with
// the initial observation.
func (f *FrameStackEnv) Reset() ([]float64, error) {
	obs, err := f.Env.Reset()
	if err != nil {
		return nil, err
	}
	f.frames = f.frames[:0]
	for i := 0; i < f.NumFrames; i++ {
		f.frames = append(f.frames, obs)
	}
	return f.stacked(), nil
}

// Step takes a step and pushes the observation onto the
// stack.
func (f *FrameStackEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	obs, rew, done, err := f.Env.Step(action)
	if err != nil {
		return nil, 0, false, err
	}
	f.frames = append(f.frames[1:], obs)
	return f.stacked(), rew, done, nil
}

// Unwrap returns the wrapped environment.
func (f *FrameStackEnv) Unwrap() interface{} {
	return f.Env
}

func (f *FrameStackEnv) stacked() []float64 {
	var res []float64
	for _, frame := range f.frames {
		res = append(res, frame...)
	}
	return res
}

// A ScaleObsEnv multiplies every observation component
// by a constant, e.g. to map byte pixels into [0, 1].
type ScaleObsEnv struct {
	Env

	// Scale is the multiplier.
	Scale float64
}

// Reset resets the environment.
func (s *ScaleObsEnv) Reset() ([]float64, error) {
	obs, err := s.Env.Reset()
	return s.scaled(obs), err
}

// Step takes a step in the environment.
func (s *ScaleObsEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	obs, rew, done, err := s.Env.Step(action)
	return s.scaled(obs), rew, done, err
}

// Unwrap returns the wrapped environment.
func (s *ScaleObsEnv) Unwrap() interface{} {
	return s.Env
}

func (s *ScaleObsEnv) scaled(obs []float64) []float64 {
	if obs == nil {
		return nil
	}
	res := make([]float64, len(obs))
	for i, x := range obs {
		res[i] = x * s.Scale
	}
	return res
}

// A TimeLimitEnv ends episodes early if they run longer
// than MaxSteps timesteps.
type TimeLimitEnv struct {
	Env

	// MaxSteps is the episode step budget.
	MaxSteps int

	steps int
}

// Reset resets the environment.
func (t *TimeLimitEnv) Reset() ([]float64, error) {
	t.steps = 0
	return t.Env.Reset()
}

// Step takes a step in the environment.
func (t *TimeLimitEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	obs, rew, done, err := t.Env.Step(action)
	t.steps++
	if t.steps >= t.MaxSteps {
		done = true
	}
	return obs, rew, done, err
}

// Unwrap returns the wrapped environment.
func (t *TimeLimitEnv) Unwrap() interface{} {
	return t.Env
}
