package envtools

import (
	"errors"
	"io"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

func init() {
	Register("priors-v0", func(id string, cfg *Config) (io.Closer, error) {
		return newPriorsEnv(), nil
	})
}

// priorsParams configures the priors task.
type priorsParams struct {
	// ExpDur is the episode length in trials.
	ExpDur int

	// TrialDur is the number of steps per trial; the
	// agent must fixate for all but the last step.
	TrialDur int

	// Rewards for: breaking fixation, fixating, a
	// correct choice, a wrong choice.
	StopFix float64
	Fix     float64
	Hit     float64
	Fail    float64

	// BlockDur is the number of trials per block.
	BlockDur int

	// StimEv is the strength of the stimulus evidence,
	// in [0, 1].
	StimEv float64

	// RepProb is the per-block probability that the
	// correct side repeats the previous trial's side.
	RepProb []float64
}

func defaultPriorsParams() priorsParams {
	return priorsParams{
		ExpDur:   100,
		TrialDur: 10,
		StopFix:  -0.1,
		Fix:      0,
		Hit:      1,
		Fail:     -1,
		BlockDur: 200,
		StimEv:   0.5,
		RepProb:  []float64{0.2, 0.8},
	}
}

// priorsEnv is a trial-based two-alternative choice task.
//
// Each trial presents noisy evidence for one of two
// sides. The agent has to fixate (action 0) until the
// final step of the trial and then pick a side (action 1
// or 2). The correct side is serially correlated: within
// a block of trials it repeats the previous side with a
// fixed probability, and the probability changes from
// block to block.
//
// Observations are {fixation cue, left evidence, right
// evidence}. Episodes span a fixed number of trials.
type priorsEnv struct {
	params priorsParams

	rng *rand.Rand

	trial     int
	trialStep int
	side      int
	prevSide  int
	done      bool
}

func newPriorsEnv() *priorsEnv {
	return &priorsEnv{
		params: defaultPriorsParams(),
		rng:    rand.New(rand.NewSource(rand.Uint64())),
	}
}

// Seed seeds the task's random generator.
func (p *priorsEnv) Seed(seed int64) error {
	p.rng = rand.New(rand.NewSource(uint64(seed)))
	return nil
}

// UpdateParams applies task parameters by name.
//
// Recognized keys mirror the command-line options:
// exp_dur, trial_dur, reward (four comma-separated
// values), block_dur, stim_ev, rep_prob.
func (p *priorsEnv) UpdateParams(params map[string]string) error {
	for key, val := range params {
		var err error
		switch key {
		case "exp_dur":
			p.params.ExpDur, err = strconv.Atoi(val)
		case "trial_dur":
			p.params.TrialDur, err = strconv.Atoi(val)
		case "block_dur":
			p.params.BlockDur, err = strconv.Atoi(val)
		case "stim_ev":
			p.params.StimEv, err = strconv.ParseFloat(val, 64)
		case "reward":
			var list FloatListFlag
			if err = list.Set(val); err == nil {
				if len(list.Values) != 4 {
					err = errors.New("need 4 reward values")
				} else {
					p.params.StopFix = list.Values[0]
					p.params.Fix = list.Values[1]
					p.params.Hit = list.Values[2]
					p.params.Fail = list.Values[3]
				}
			}
		case "rep_prob":
			var list FloatListFlag
			if err = list.Set(val); err == nil {
				if len(list.Values) == 0 {
					err = errors.New("need at least 1 probability")
				} else {
					p.params.RepProb = list.Values
				}
			}
		default:
			// Settings for the wrapper bundles may share
			// the options map; skip what we do not know.
		}
		if err != nil {
			return errors.New("update param " + key + ": " + err.Error())
		}
	}
	return nil
}

// Reset starts a new episode.
func (p *priorsEnv) Reset() ([]float64, error) {
	p.trial = 0
	p.trialStep = 0
	p.done = false
	p.prevSide = p.sampleUniformSide()
	p.startTrial()
	return p.observe(), nil
}

// Step takes a step in the environment.
func (p *priorsEnv) Step(action []float64) ([]float64, float64, bool, error) {
	if p.done {
		return nil, 0, false, errors.New("step: episode is over")
	}
	choice := maxIndex(action)
	var reward float64

	last := p.trialStep == p.params.TrialDur-1
	switch {
	case !last && choice != 0:
		// Fixation broken: the trial is forfeit.
		reward = p.params.StopFix
		p.endTrial()
	case !last:
		reward = p.params.Fix
		p.trialStep++
	default:
		if choice == p.side {
			reward = p.params.Hit
		} else {
			reward = p.params.Fail
		}
		p.endTrial()
	}

	return p.observe(), reward, p.done, nil
}

// Close releases the task; it holds no resources.
func (p *priorsEnv) Close() error {
	return nil
}

func (p *priorsEnv) startTrial() {
	block := (p.trial / p.params.BlockDur) % len(p.params.RepProb)
	repProb := p.params.RepProb[block]
	if p.bernoulli(repProb) {
		p.side = p.prevSide
	} else {
		p.side = 3 - p.prevSide
	}
	p.trialStep = 0
}

func (p *priorsEnv) endTrial() {
	p.prevSide = p.side
	p.trial++
	if p.trial >= p.params.ExpDur {
		p.done = true
		return
	}
	p.startTrial()
}

// observe builds the current observation: a fixation cue
// during the fixation period and noisy evidence for the
// correct side.
func (p *priorsEnv) observe() []float64 {
	obs := make([]float64, 3)
	if p.done {
		return obs
	}
	if p.trialStep < p.params.TrialDur-1 {
		obs[0] = 1
	}
	if p.trialStep > 0 {
		evidenceSide := p.side
		if !p.bernoulli((1 + p.params.StimEv) / 2) {
			evidenceSide = 3 - p.side
		}
		obs[evidenceSide] = 1
	}
	return obs
}

func (p *priorsEnv) sampleUniformSide() int {
	if p.bernoulli(0.5) {
		return 1
	}
	return 2
}

func (p *priorsEnv) bernoulli(prob float64) bool {
	dist := distuv.Bernoulli{P: prob, Src: p.rng}
	return dist.Rand() > 0.5
}
