package envtools

import "sort"

// A FlattenEnv adapts a DictEnv to the Env interface by
// concatenating the dictionary's values into one flat
// observation vector.
//
// Keys are concatenated in sorted order, fixed by the
// first observation the wrapper sees.
type FlattenEnv struct {
	Env DictEnv

	keys []string
}

// Reset resets the environment.
func (f *FlattenEnv) Reset() ([]float64, error) {
	obs, err := f.Env.Reset()
	if err != nil {
		return nil, err
	}
	return f.flatten(obs), nil
}

// Step takes a step in the environment.
func (f *FlattenEnv) Step(action []float64) ([]float64, float64, bool, error) {
	obs, rew, done, err := f.Env.Step(action)
	if err != nil {
		return nil, 0, false, err
	}
	return f.flatten(obs), rew, done, nil
}

// Close closes the wrapped environment.
func (f *FlattenEnv) Close() error {
	return f.Env.Close()
}

// Unwrap returns the wrapped environment.
func (f *FlattenEnv) Unwrap() interface{} {
	return f.Env
}

func (f *FlattenEnv) flatten(obs map[string][]float64) []float64 {
	if f.keys == nil {
		f.keys = make([]string, 0, len(obs))
		for k := range obs {
			f.keys = append(f.keys, k)
		}
		sort.Strings(f.keys)
	}
	var res []float64
	for _, k := range f.keys {
		res = append(res, obs[k]...)
	}
	return res
}
