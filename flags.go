package envtools

import (
	"flag"
	"strconv"
	"strings"
)

// A SeedFlag is a flag.Value for an optional random
// seed: it stays nil until the flag is given.
type SeedFlag struct {
	Seed *int64
}

// String returns the string representation of the seed.
func (s *SeedFlag) String() string {
	if s == nil || s.Seed == nil {
		return ""
	}
	return strconv.FormatInt(*s.Seed, 10)
}

// Set sets the seed from a string representation.
func (s *SeedFlag) Set(str string) error {
	seed, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return err
	}
	s.Seed = &seed
	return nil
}

// A FloatListFlag is a flag.Value for a comma-separated
// list of numbers.
type FloatListFlag struct {
	Values []float64
}

// String returns the comma-separated representation of
// the list.
func (f *FloatListFlag) String() string {
	if f == nil {
		return ""
	}
	strs := make([]string, len(f.Values))
	for i, x := range f.Values {
		strs[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(strs, ",")
}

// Set sets the list from a comma-separated string.
func (f *FloatListFlag) Set(str string) error {
	var values []float64
	for _, part := range strings.Split(str, ",") {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		values = append(values, x)
	}
	f.Values = values
	return nil
}

// Flags holds the standard options of a training script.
type Flags struct {
	Env               string
	Seed              SeedFlag
	Alg               string
	NumTimesteps      float64
	Network           string
	GameState         string
	NumEnv            int
	RewardScale       float64
	SavePath          string
	SaveVideoInterval int
	SaveVideoLength   int
	Play              bool
	ExtraImport       string

	// Options for the "priors" task.
	ExpDur   int
	TrialDur int
	Reward   FloatListFlag
	BlockDur int
	StimEv   float64
	RepProb  FloatListFlag
	Folder   string
}

// AddFlags adds the options to a flag set.
func (f *Flags) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.Env, "env", "Reacher-v2", "environment ID")
	fs.Var(&f.Seed, "seed", "RNG seed")
	fs.StringVar(&f.Alg, "alg", "ppo2", "algorithm name")
	fs.Float64Var(&f.NumTimesteps, "num_timesteps", 1e6, "total timesteps")
	fs.StringVar(&f.Network, "network", "",
		"network type (mlp, cnn, lstm, cnn_lstm, conv_only)")
	fs.StringVar(&f.GameState, "gamestate", "",
		"game state to load (retro games only)")
	fs.IntVar(&f.NumEnv, "num_env", 0,
		"number of environment copies run in parallel (0 = one per CPU "+
			"for Atari, 1 otherwise)")
	fs.Float64Var(&f.RewardScale, "reward_scale", 1.0, "reward scale factor")
	fs.StringVar(&f.SavePath, "save_path", "", "path to save trained model to")
	fs.IntVar(&f.SaveVideoInterval, "save_video_interval", 0,
		"save video every x steps (0 = disabled)")
	fs.IntVar(&f.SaveVideoLength, "save_video_length", 200,
		"length of recorded video")
	fs.BoolVar(&f.Play, "play", false, "play with the trained model")
	fs.StringVar(&f.ExtraImport, "extra_import", "",
		"extra plugin providing external environments")

	fs.IntVar(&f.ExpDur, "exp_dur", 100, "experiment duration in trials")
	fs.IntVar(&f.TrialDur, "trial_dur", 10, "steps per trial")
	f.Reward.Values = []float64{-0.1, 0.0, 1.0, -1.0}
	fs.Var(&f.Reward, "reward", "rewards for: stop fix, fix, hit, fail")
	fs.IntVar(&f.BlockDur, "block_dur", 200, "trials per block")
	fs.Float64Var(&f.StimEv, "stim_ev", 0.5, "level of difficulty")
	f.RepProb.Values = []float64{0.2, 0.8}
	fs.Var(&f.RepProb, "rep_prob", "repeat probability for each block")
	fs.StringVar(&f.Folder, "folder", "", "where to save the data")
}

// Parse parses args strictly: an unknown flag makes the
// flag set print its usage and, with flag.ExitOnError,
// exit with a nonzero status.
func (f *Flags) Parse(fs *flag.FlagSet, args []string) error {
	return fs.Parse(args)
}

// ParseKnown parses the declared flags out of args and
// returns the tokens the flag set did not recognize, for
// use with ParseResidual.
func (f *Flags) ParseKnown(fs *flag.FlagSet, args []string) ([]string, error) {
	known, residual := splitKnown(fs, args)
	if err := fs.Parse(known); err != nil {
		return nil, err
	}
	return residual, nil
}

// splitKnown separates tokens for flags declared in fs
// from everything else.
//
// An unrecognized "--key" consumes a following non-flag
// token as its value, so that both end up in the residual
// list together.
func splitKnown(fs *flag.FlagSet, args []string) (known, residual []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			residual = append(residual, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		hasValue := false
		if idx := strings.Index(name, "="); idx >= 0 {
			name = name[:idx]
			hasValue = true
		}
		fl := fs.Lookup(name)
		if fl == nil {
			residual = append(residual, arg)
			if !hasValue && i+1 < len(args) &&
				!strings.HasPrefix(args[i+1], "-") {
				residual = append(residual, args[i+1])
				i++
			}
			continue
		}
		known = append(known, arg)
		if !hasValue && !isBoolFlag(fl) {
			if i+1 < len(args) {
				known = append(known, args[i+1])
				i++
			}
		}
	}
	return
}

func isBoolFlag(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
