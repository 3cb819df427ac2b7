package envtools

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestMonitorStats(t *testing.T) {
	env := &Monitor{Env: newTestEnv(2, 1, 2, 3, 4)}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, _, done, err := env.Step([]float64{0}); err != nil {
			t.Fatal(err)
		} else if done {
			if _, err := env.Reset(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if !reflect.DeepEqual(env.EpisodeRewards(), []float64{3, 7}) {
		t.Errorf("unexpected episode rewards: %v", env.EpisodeRewards())
	}
	if !reflect.DeepEqual(env.EpisodeLengths(), []int{2, 2}) {
		t.Errorf("unexpected episode lengths: %v", env.EpisodeLengths())
	}
}

func TestMonitorEarlyReset(t *testing.T) {
	env := &Monitor{Env: newTestEnv(5)}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := env.Step([]float64{0}); err != nil {
		t.Fatal(err)
	}
	// Abandon the episode mid-way.
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, _, _, err := env.Step([]float64{0}); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(env.EpisodeLengths(), []int{5}) {
		t.Errorf("unexpected episode lengths: %v", env.EpisodeLengths())
	}
}

func TestMonitorFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0.0.monitor.csv")
	env := &Monitor{
		Env:     newTestEnv(2, 1),
		EnvID:   "fake-v0",
		LogPath: path,
	}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, _, _, err := env.Step([]float64{0}); err != nil {
			t.Fatal(err)
		}
	}
	if err := env.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines but got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "#{") ||
		!strings.Contains(lines[0], `"env_id":"fake-v0"`) {
		t.Errorf("bad header line: %s", lines[0])
	}
	if lines[1] != "r,l,t" {
		t.Errorf("bad column line: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2,2,") {
		t.Errorf("bad episode line: %s", lines[2])
	}
}
