package envtools

import (
	"github.com/unixpickle/essentials"
	gym "github.com/unixpickle/gym-socket-api/binding-go"
)

// DefaultGymHost is the gym-socket-api server address
// used when a Config does not specify one.
const DefaultGymHost = "localhost:5001"

// gymEnv is an Env backed by a remote gym-socket-api
// environment.
//
// Discrete-action environments take one-hot action
// vectors and forward the index of the maximum entry.
type gymEnv struct {
	Client   gym.Env
	Discrete bool
	Render   bool
}

// DialGym connects to the gym server from cfg and wraps
// the remote environment named by id.
//
// Unknown environment identifiers fail inside gym.Make
// and are propagated unchanged.
func DialGym(id string, cfg *Config) (env Env, err error) {
	defer essentials.AddCtxTo("dial gym", &err)
	host := cfg.GymHost
	if host == "" {
		host = DefaultGymHost
	}
	client, err := gym.Make(host, id)
	if err != nil {
		return nil, err
	}
	if cfg.VideoDir != "" {
		if err := client.Monitor(cfg.VideoDir, true, false, true); err != nil {
			client.Close()
			return nil, err
		}
	}
	actSpace, err := client.ActionSpace()
	if err != nil {
		client.Close()
		return nil, err
	}
	res := &gymEnv{
		Client:   client,
		Discrete: actSpace.Type == "Discrete",
		Render:   cfg.Render,
	}
	if !res.Discrete && len(actSpace.Low) > 0 &&
		len(actSpace.Low) == len(actSpace.High) {
		return &boxActionEnv{
			Env: res,
			Min: actSpace.Low,
			Max: actSpace.High,
		}, nil
	}
	return res, nil
}

// Reset resets the environment.
func (g *gymEnv) Reset() (obs []float64, err error) {
	defer essentials.AddCtxTo("reset gym env", &err)
	rawObs, err := g.Client.Reset()
	if err != nil {
		return nil, err
	}
	if g.Render {
		if err := g.Client.Render(); err != nil {
			return nil, err
		}
	}
	return gym.Flatten(rawObs)
}

// Step takes a step in the environment.
func (g *gymEnv) Step(action []float64) (obs []float64, reward float64,
	done bool, err error) {
	defer essentials.AddCtxTo("step gym env", &err)
	var actionObj interface{}
	if g.Discrete {
		actionObj = maxIndex(action)
	} else {
		actionObj = action
	}
	rawObs, reward, done, _, err := g.Client.Step(actionObj)
	if err != nil {
		return
	}
	if g.Render {
		if err = g.Client.Render(); err != nil {
			return
		}
	}
	obs, err = gym.Flatten(rawObs)
	return
}

// Close disconnects from the remote environment.
func (g *gymEnv) Close() error {
	return g.Client.Close()
}

// A boxActionEnv rescales actions from [-1, 1] into a
// continuous action space's [min, max] ranges.
type boxActionEnv struct {
	Env

	Min []float64
	Max []float64
}

// Step rescales the action and takes a step.
func (b *boxActionEnv) Step(action []float64) ([]float64, float64,
	bool, error) {
	scaled := make([]float64, len(action))
	for i, x := range action {
		if x < -1 {
			x = -1
		} else if x > 1 {
			x = 1
		}
		clamped := (x + 1) / 2
		scaled[i] = b.Min[i] + (b.Max[i]-b.Min[i])*clamped
	}
	return b.Env.Step(scaled)
}

// Unwrap returns the wrapped environment.
func (b *boxActionEnv) Unwrap() interface{} {
	return b.Env
}

// maxIndex returns the index of the largest entry in a
// vector.
func maxIndex(vec []float64) int {
	res := 0
	for i, x := range vec {
		if x > vec[res] {
			res = i
		}
	}
	return res
}
