// Package retro adds the "retro" console-emulation
// environment family to envtools.
//
// The family talks to a gym-socket-api server with the
// retro integration installed, which exposes each game
// under a "retro/<game>" identifier (optionally suffixed
// with "/<save state>"). Importing this package is what
// enables the family:
//
//	import _ "github.com/unixpickle/envtools/retro"
package retro

import (
	"errors"
	"io"
	"strconv"

	"github.com/unixpickle/envtools"
	"github.com/unixpickle/essentials"
)

// DefaultState is the save state used when a Config does
// not name one: the game's own default starting point.
const DefaultState = "default"

// MaxEpisodeSteps bounds every retro episode.
const MaxEpisodeSteps = 10000

const (
	frameSkip = 4
	stickProb = 0.25
	stackSize = 4
)

func init() {
	envtools.RegisterFamily("retro", &envtools.Family{
		Make: makeEnv,
		Wrap: wrap,
	})
}

// makeEnv builds a retro game from its default or
// configured save state, using the discrete action
// encoding.
func makeEnv(id string, cfg *envtools.Config) (res io.Closer, err error) {
	defer essentials.AddCtxTo("make retro env", &err)
	state := cfg.GameState
	if state == "" {
		state = DefaultState
	}
	remoteID := "retro/" + id
	if state != DefaultState {
		remoteID += "/" + state
	}
	env, err := envtools.DialGym(remoteID, cfg)
	if err != nil {
		return nil, err
	}
	return &envtools.TimeLimitEnv{Env: env, MaxSteps: MaxEpisodeSteps}, nil
}

// wrap applies the retro post-processing bundle:
// stochastic frame skipping, reward clipping, frame
// stacking, and pixel scaling.
//
// Recognized options: "frame_skip", "stick_prob",
// "clip_rewards", "frame_stack", "scale".
func wrap(env envtools.Env, opts map[string]string) (envtools.Env, error) {
	skip, err := optInt(opts, "frame_skip", frameSkip)
	if err != nil {
		return nil, err
	}
	stick, err := optFloat(opts, "stick_prob", stickProb)
	if err != nil {
		return nil, err
	}
	clip, err := optBool(opts, "clip_rewards", true)
	if err != nil {
		return nil, err
	}
	stack, err := optBool(opts, "frame_stack", true)
	if err != nil {
		return nil, err
	}
	scale, err := optBool(opts, "scale", true)
	if err != nil {
		return nil, err
	}

	if skip > 1 {
		env = &envtools.MaxSkipEnv{Env: env, Skip: skip, StickProb: stick}
	}
	if scale {
		env = &envtools.ScaleObsEnv{Env: env, Scale: 1.0 / 255}
	}
	if clip {
		env = &envtools.ClipRewardEnv{Env: env}
	}
	if stack {
		env = &envtools.FrameStackEnv{Env: env, NumFrames: stackSize}
	}
	return env, nil
}

func optBool(opts map[string]string, key string, def bool) (bool, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, errors.New("option " + key + ": " + err.Error())
	}
	return val, nil
}

func optInt(opts map[string]string, key string, def int) (int, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, errors.New("option " + key + ": " + err.Error())
	}
	return val, nil
}

func optFloat(opts map[string]string, key string, def float64) (float64, error) {
	str, ok := opts[key]
	if !ok {
		return def, nil
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, errors.New("option " + key + ": " + err.Error())
	}
	return val, nil
}
