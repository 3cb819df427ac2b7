package envtools

import (
	"errors"
	"io"
	"strings"
)

const (
	atariMaxNoops   = 30
	atariFrameSkip  = 4
	atariStackDepth = 4
)

// makeAtariEnv builds an Atari game with the standard
// preprocessing preset: random no-ops at the start of
// each episode, then action repeat with frame maxing.
//
// The preset expects a NoFrameskip variant so that the
// emulator does not skip frames on its own.
func makeAtariEnv(id string, cfg *Config) (io.Closer, error) {
	if !strings.Contains(id, "NoFrameskip") {
		return nil, errors.New("atari environments must be NoFrameskip variants")
	}
	base, err := DialGym(id, cfg)
	if err != nil {
		return nil, err
	}
	var env Env = &NoopResetEnv{
		Env:        base,
		MaxNoops:   atariMaxNoops,
		NoopAction: []float64{1},
	}
	env = &MaxSkipEnv{Env: env, Skip: atariFrameSkip}
	return env, nil
}

// wrapAtari applies the Atari post-processing bundle.
//
// Recognized options: "fire_reset" (press fire after
// every reset), "clip_rewards" (default true),
// "frame_stack" (stack the last four frames), and
// "scale" (map byte pixels into [0, 1]).
func wrapAtari(env Env, opts map[string]string) (Env, error) {
	fireReset, err := optBool(opts, "fire_reset", false)
	if err != nil {
		return nil, err
	}
	clipRewards, err := optBool(opts, "clip_rewards", true)
	if err != nil {
		return nil, err
	}
	frameStack, err := optBool(opts, "frame_stack", false)
	if err != nil {
		return nil, err
	}
	scale, err := optBool(opts, "scale", false)
	if err != nil {
		return nil, err
	}

	if fireReset {
		// Fire is conventionally action 1.
		env = &FireResetEnv{Env: env, FireAction: []float64{0, 1}}
	}
	if scale {
		env = &ScaleObsEnv{Env: env, Scale: 1.0 / 255}
	}
	if clipRewards {
		env = &ClipRewardEnv{Env: env}
	}
	if frameStack {
		env = &FrameStackEnv{Env: env, NumFrames: atariStackDepth}
	}
	return env, nil
}
