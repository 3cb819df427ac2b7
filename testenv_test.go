package envtools

import (
	"errors"
	"io"
	"sync"
)

// testEnv is a scripted environment for tests.
//
// Each episode lasts episodeLen steps; rewards cycle
// through the rewards list. Observations are the total
// step count so far, as a one-component vector.
type testEnv struct {
	rewards    []float64
	episodeLen int

	totalSteps   int
	episodeSteps int
	resets       int
	closed       bool

	seeds  []int64
	params map[string]string
}

func newTestEnv(episodeLen int, rewards ...float64) *testEnv {
	if len(rewards) == 0 {
		rewards = []float64{1}
	}
	return &testEnv{rewards: rewards, episodeLen: episodeLen}
}

func (t *testEnv) Reset() ([]float64, error) {
	t.resets++
	t.episodeSteps = 0
	return []float64{float64(t.totalSteps)}, nil
}

func (t *testEnv) Step(action []float64) ([]float64, float64, bool, error) {
	if t.closed {
		return nil, 0, false, errors.New("step: closed")
	}
	reward := t.rewards[t.totalSteps%len(t.rewards)]
	t.totalSteps++
	t.episodeSteps++
	done := t.episodeSteps >= t.episodeLen
	return []float64{float64(t.totalSteps)}, reward, done, nil
}

func (t *testEnv) Close() error {
	t.closed = true
	return nil
}

func (t *testEnv) Seed(seed int64) error {
	t.seeds = append(t.seeds, seed)
	return nil
}

func (t *testEnv) UpdateParams(params map[string]string) error {
	t.params = params
	return nil
}

// testDictEnv produces dictionary observations with a
// fixed set of keys.
type testDictEnv struct {
	obs map[string][]float64
}

func (t *testDictEnv) Reset() (map[string][]float64, error) {
	return t.obs, nil
}

func (t *testDictEnv) Step(action []float64) (map[string][]float64, float64,
	bool, error) {
	return t.obs, 1, false, nil
}

func (t *testDictEnv) Close() error {
	return nil
}

// envRecorder registers a scripted constructor and
// remembers every environment it built.
type envRecorder struct {
	lock sync.Mutex
	envs []*testEnv

	episodeLen int
	rewards    []float64
}

func (e *envRecorder) register(id string) {
	Register(id, func(id string, cfg *Config) (io.Closer, error) {
		e.lock.Lock()
		defer e.lock.Unlock()
		env := newTestEnv(e.episodeLen, e.rewards...)
		e.envs = append(e.envs, env)
		return env, nil
	})
}

func (e *envRecorder) all() []*testEnv {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]*testEnv{}, e.envs...)
}

func i64(x int64) *int64 {
	return &x
}
