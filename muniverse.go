package envtools

import (
	"time"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/muniverse"
	"github.com/unixpickle/muniverse/chrome"
)

const (
	muniverseDownsample = 4
	muniverseEpisodeDur = time.Minute
	defaultFrameTime    = time.Second / 8
)

// muniverseEnv is an Env wrapper around a muniverse.Env.
// It handles action conversions and downsampling.
type muniverseEnv struct {
	Env         muniverse.Env
	TimePerStep time.Duration

	timestep int

	tapPressed bool
}

// makeMuniverseEnv builds a muniverse game if the
// identifier names one; ok reports whether it did.
func makeMuniverseEnv(id string, cfg *Config) (env Env, ok bool, err error) {
	spec := muniverse.SpecForName(id)
	if spec == nil {
		return nil, false, nil
	}
	defer essentials.AddCtxTo("make muniverse env", &err)

	frameTime := defaultFrameTime
	if str := cfg.Options["frame_time"]; str != "" {
		frameTime, err = time.ParseDuration(str)
		if err != nil {
			return nil, true, err
		}
	}

	rawEnv, err := muniverse.NewEnv(spec)
	if err != nil {
		return nil, true, err
	}
	if cfg.VideoDir != "" {
		rawEnv = muniverse.RecordEnv(rawEnv, cfg.VideoDir)
	}
	return &muniverseEnv{
		Env:         rawEnv,
		TimePerStep: frameTime,
	}, true, nil
}

// Reset sets up a fresh instance of the environment.
func (m *muniverseEnv) Reset() (observation []float64, err error) {
	err = m.Env.Reset()
	if err != nil {
		return
	}
	rawObs, err := m.Env.Observe()
	if err != nil {
		return
	}
	buffer, _, _, err := muniverse.RGB(rawObs)
	if err != nil {
		return
	}
	observation = m.simplifyImage(buffer)
	m.timestep = 0
	m.tapPressed = false
	return
}

// Step takes an action, advances time, and captures a
// screenshot of the environment.
func (m *muniverseEnv) Step(action []float64) (observation []float64,
	reward float64, done bool, err error) {
	events := m.eventsForAction(action)
	reward, done, err = m.Env.Step(m.TimePerStep, events...)
	if err != nil {
		return
	}
	rawObs, err := m.Env.Observe()
	if err != nil {
		return
	}
	buffer, _, _, err := muniverse.RGB(rawObs)
	if err != nil {
		return
	}
	observation = m.simplifyImage(buffer)

	m.timestep++
	if time.Duration(m.timestep)*m.TimePerStep >= muniverseEpisodeDur {
		done = true
	}
	return
}

// Close shuts down the environment.
func (m *muniverseEnv) Close() error {
	return m.Env.Close()
}

func (m *muniverseEnv) eventsForAction(action []float64) []interface{} {
	actionIdx := maxIndex(action)
	spec := m.Env.Spec()
	if len(spec.KeyWhitelist) == 0 {
		return m.tapEvents(actionIdx)
	} else {
		return m.keyEvents(actionIdx)
	}
}

func (m *muniverseEnv) tapEvents(actionIdx int) []interface{} {
	var events []interface{}
	spec := m.Env.Spec()
	evt := chrome.MouseEvent{
		Type:       chrome.MousePressed,
		X:          spec.Width / 2,
		Y:          spec.Height / 2,
		Button:     chrome.LeftButton,
		ClickCount: 1,
	}
	press := actionIdx == 1
	if press && !m.tapPressed {
		events = append(events, &evt)
	} else if !press && m.tapPressed {
		evt.Type = chrome.MouseReleased
		events = append(events, &evt)
	}
	m.tapPressed = press
	return events
}

func (m *muniverseEnv) keyEvents(actionIdx int) []interface{} {
	var events []interface{}
	spec := m.Env.Spec()
	actions := append([]string{""}, spec.KeyWhitelist...)
	actionKey := actions[actionIdx]
	if actionKey != "" {
		evt := chrome.KeyEvents[actionKey]
		evt1 := evt
		evt.Type = chrome.KeyDown
		evt1.Type = chrome.KeyUp
		events = append(events, &evt, &evt1)
	}
	return events
}

func (m *muniverseEnv) simplifyImage(in []uint8) []float64 {
	spec := m.Env.Spec()
	data := make([]float64, 0,
		muniverseObsSize(spec.Width, spec.Height))
	for y := 0; y < spec.Height; y += muniverseDownsample {
		for x := 0; x < spec.Width; x += muniverseDownsample {
			sourceIdx := (y*spec.Width + x) * 3
			var value float64
			for d := 0; d < 3; d++ {
				value += float64(in[sourceIdx+d])
			}
			data = append(data, essentials.Round(value/3))
		}
	}
	return data
}

func muniverseObsSize(width, height int) int {
	subWidth := width / muniverseDownsample
	subHeight := height / muniverseDownsample
	if width%muniverseDownsample != 0 {
		subWidth++
	}
	if height%muniverseDownsample != 0 {
		subHeight++
	}
	return subWidth * subHeight
}
