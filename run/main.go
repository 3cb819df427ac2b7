// Command run builds a (possibly vectorized) environment
// from command-line flags and steps it with a random
// policy, logging episode statistics.
//
// It accepts the standard training-script flags plus
// arbitrary "--key value" pairs, which are forwarded to
// the environment family's wrapper bundle and to task
// environments that take parameter updates.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	_ "github.com/unixpickle/anyplugin"
	"github.com/unixpickle/envtools"
	_ "github.com/unixpickle/envtools/retro"
	"github.com/unixpickle/rip"
)

type Flags struct {
	envtools.Flags

	Family    string
	LogDir    string
	GymHost   string
	ActionDim int
}

func main() {
	flags := &Flags{}
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags.AddFlags(fs)
	fs.StringVar(&flags.Family, "env_type", "gym",
		"environment family (atari, gym, retro)")
	fs.StringVar(&flags.LogDir, "log_dir", "", "directory for monitor files")
	fs.StringVar(&flags.GymHost, "gym", envtools.DefaultGymHost,
		"host for gym-socket-api")
	fs.IntVar(&flags.ActionDim, "action_dim", 4,
		"action vector size for the random policy")

	residual, err := flags.ParseKnown(fs, os.Args[1:])
	must(err)
	log.Println("Run with arguments:", os.Args[1:])

	opts := envtools.ParseResidual(residual)
	addPriorsOptions(flags, opts)
	if flags.ExtraImport != "" {
		log.Printf("Extra environments come from compiled-in plugins "+
			"(requested %q).", flags.ExtraImport)
	}

	cfg := &envtools.Config{
		Seed:        flags.Seed.Seed,
		RewardScale: flags.RewardScale,
		GameState:   flags.GameState,
		FlattenDict: true,
		Options:     opts,
		LogDir:      flags.LogDir,
		GymHost:     flags.GymHost,
	}
	if flags.SaveVideoInterval > 0 && flags.LogDir != "" {
		cfg.VideoDir = filepath.Join(flags.LogDir, "videos")
	}

	if flags.Play {
		play(flags, cfg)
		return
	}

	numEnv := flags.NumEnv
	if numEnv == 0 {
		if flags.Family == "atari" {
			numEnv = runtime.NumCPU()
		} else {
			numEnv = 1
		}
	}

	log.Println("Creating environments...")
	venv, err := envtools.MakeVecEnv(flags.Env, flags.Family, numEnv, 0, cfg)
	must(err)
	defer venv.Close()

	rng := newRNG(flags)
	killChan := rip.NewRIP().Chan()

	_, err = venv.Reset()
	must(err)

	returns := make([]float64, venv.NumEnvs())
	var episodes int
	var totalReturn float64
	for steps := 0; steps < int(flags.NumTimesteps); steps += venv.NumEnvs() {
		select {
		case <-killChan:
			log.Println("Interrupted.")
			return
		default:
		}
		_, rews, dones, err := venv.Step(randomActions(rng, venv.NumEnvs(),
			flags.ActionDim))
		must(err)
		for i, rew := range rews {
			returns[i] += rew
			if dones[i] {
				episodes++
				totalReturn += returns[i]
				returns[i] = 0
				if episodes%10 == 0 {
					log.Printf("done %d episodes: mean return %f",
						episodes, totalReturn/float64(episodes))
				}
			}
		}
	}
	log.Printf("Finished %d episodes over %d timesteps.", episodes,
		int(flags.NumTimesteps))
}

// play runs one rendered environment until Ctrl+C.
func play(flags *Flags, cfg *envtools.Config) {
	renderCfg := *cfg
	renderCfg.Render = true
	cfg = &renderCfg

	log.Println("Creating environment...")
	env, err := envtools.MakeEnv(flags.Env, flags.Family, cfg)
	must(err)
	defer env.Close()

	rng := newRNG(flags)
	killChan := rip.NewRIP().Chan()

	for {
		_, err := env.Reset()
		must(err)
		var episodeReturn float64
		for {
			select {
			case <-killChan:
				return
			default:
			}
			_, rew, done, err := env.Step(randomAction(rng, flags.ActionDim))
			must(err)
			episodeReturn += rew
			if done {
				break
			}
		}
		log.Printf("episode return %f", episodeReturn)
	}
}

// addPriorsOptions forwards the priors task flags to the
// option map, without overriding explicitly given pairs.
func addPriorsOptions(flags *Flags, opts map[string]string) {
	defaults := map[string]string{
		"exp_dur":   strconv.Itoa(flags.ExpDur),
		"trial_dur": strconv.Itoa(flags.TrialDur),
		"reward":    flags.Reward.String(),
		"block_dur": strconv.Itoa(flags.BlockDur),
		"stim_ev":   strconv.FormatFloat(flags.StimEv, 'g', -1, 64),
		"rep_prob":  flags.RepProb.String(),
	}
	for key, val := range defaults {
		if _, ok := opts[key]; !ok {
			opts[key] = val
		}
	}
}

func randomActions(rng *rand.Rand, n, dim int) [][]float64 {
	res := make([][]float64, n)
	for i := range res {
		res[i] = randomAction(rng, dim)
	}
	return res
}

func randomAction(rng *rand.Rand, dim int) []float64 {
	res := make([]float64, dim)
	for i := range res {
		res[i] = rng.Float64()*2 - 1
	}
	return res
}

func newRNG(flags *Flags) *rand.Rand {
	if flags.Seed.Seed != nil {
		return rand.New(rand.NewSource(*flags.Seed.Seed))
	}
	return rand.New(rand.NewSource(int64(os.Getpid())))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
