package envtools

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/unixpickle/essentials"
)

// A Monitor records the length and total reward of every
// episode played in the environment it wraps.
//
// If LogPath is non-empty, finished episodes are appended
// to a CSV file at that path; otherwise statistics are
// only kept in memory.
type Monitor struct {
	Env Env

	// LogPath is the monitor file destination, or "" to
	// disable file output.
	LogPath string

	// EnvID is recorded in the monitor file header.
	EnvID string

	startTime time.Time
	file      *os.File

	episodeReward float64
	episodeSteps  int
	needsReset    bool

	rewards []float64
	lengths []int
}

// Reset starts a new episode.
//
// Resetting mid-episode is allowed; the partial episode
// is discarded.
func (m *Monitor) Reset() ([]float64, error) {
	if m.startTime.IsZero() {
		m.startTime = time.Now()
	}
	m.episodeReward = 0
	m.episodeSteps = 0
	m.needsReset = false
	return m.Env.Reset()
}

// Step takes a step and updates the episode statistics.
func (m *Monitor) Step(action []float64) (obs []float64, reward float64,
	done bool, err error) {
	obs, reward, done, err = m.Env.Step(action)
	if err != nil {
		return
	}
	m.episodeReward += reward
	m.episodeSteps++
	if done {
		m.needsReset = true
		if recErr := m.recordEpisode(); recErr != nil {
			err = recErr
		}
	}
	return
}

// Close closes the wrapped environment and the monitor
// file, if one was opened.
func (m *Monitor) Close() error {
	err := m.Env.Close()
	if m.file != nil {
		if err1 := m.file.Close(); err == nil {
			err = err1
		}
		m.file = nil
	}
	return err
}

// Unwrap returns the wrapped environment.
func (m *Monitor) Unwrap() interface{} {
	return m.Env
}

// EpisodeRewards returns the total rewards of all the
// finished episodes, in order.
func (m *Monitor) EpisodeRewards() []float64 {
	return append([]float64{}, m.rewards...)
}

// EpisodeLengths returns the lengths of all the finished
// episodes, in order.
func (m *Monitor) EpisodeLengths() []int {
	return append([]int{}, m.lengths...)
}

func (m *Monitor) recordEpisode() (err error) {
	defer essentials.AddCtxTo("record episode", &err)
	m.rewards = append(m.rewards, m.episodeReward)
	m.lengths = append(m.lengths, m.episodeSteps)
	if m.LogPath == "" {
		return nil
	}
	if m.file == nil {
		if err := m.openLog(); err != nil {
			return err
		}
	}
	elapsed := time.Since(m.startTime).Seconds()
	_, err = fmt.Fprintf(m.file, "%s,%d,%s\n",
		strconv.FormatFloat(m.episodeReward, 'g', -1, 64),
		m.episodeSteps,
		strconv.FormatFloat(elapsed, 'f', 6, 64))
	return err
}

func (m *Monitor) openLog() error {
	if m.startTime.IsZero() {
		m.startTime = time.Now()
	}
	file, err := os.Create(m.LogPath)
	if err != nil {
		return err
	}
	header, _ := json.Marshal(map[string]interface{}{
		"t_start": float64(m.startTime.UnixNano()) / 1e9,
		"env_id":  m.EnvID,
	})
	if _, err := fmt.Fprintf(file, "#%s\nr,l,t\n", header); err != nil {
		file.Close()
		return err
	}
	m.file = file
	return nil
}
