package envtools

// A RewardScaleEnv multiplies every reward by a constant
// factor.
type RewardScaleEnv struct {
	Env

	// Scale is the reward multiplier.
	Scale float64
}

// Step takes a step and scales the resulting reward.
func (r *RewardScaleEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	obs, rew, done, err := r.Env.Step(action)
	return obs, rew * r.Scale, done, err
}

// Unwrap returns the wrapped environment.
func (r *RewardScaleEnv) Unwrap() interface{} {
	return r.Env
}
