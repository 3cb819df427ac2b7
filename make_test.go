package envtools

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearRankEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OMPI_COMM_WORLD_RANK", "PMI_RANK", "PMIX_RANK"} {
		t.Setenv(key, "")
	}
}

func TestMakeEnvUnknownFamily(t *testing.T) {
	if _, err := MakeEnv("Pong-v0", "nonsense", nil); err == nil {
		t.Error("expected an error for an unknown family")
	}
	_, err := MakeEnv("Airstriker-Genesis", "retro", nil)
	if err == nil {
		t.Fatal("expected an error for the unimported retro family")
	}
	if !strings.Contains(err.Error(), "envtools/retro") {
		t.Errorf("error should name the retro import: %s", err)
	}
}

func TestMakeEnvSeeding(t *testing.T) {
	rec := &envRecorder{episodeLen: 10}
	rec.register("seedfake-v0")

	env, err := MakeEnv("seedfake-v0", "gym", &Config{
		Replica: 3,
		Seed:    i64(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	envs := rec.all()
	if len(envs) != 1 {
		t.Fatalf("expected 1 env but got %d", len(envs))
	}
	if len(envs[0].seeds) != 1 || envs[0].seeds[0] != 103 {
		t.Errorf("expected seed [103] but got %v", envs[0].seeds)
	}
}

func TestMakeEnvNoSeed(t *testing.T) {
	rec := &envRecorder{episodeLen: 10}
	rec.register("noseedfake-v0")

	env, err := MakeEnv("noseedfake-v0", "gym", &Config{Replica: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	if seeds := rec.all()[0].seeds; len(seeds) != 0 {
		t.Errorf("expected no seeds but got %v", seeds)
	}
}

func TestMakeEnvParamInjection(t *testing.T) {
	rec := &envRecorder{episodeLen: 10}
	rec.register("paramfake-v0")

	opts := map[string]string{"exp_dur": "5"}
	env, err := MakeEnv("paramfake-v0", "gym", &Config{Options: opts})
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()

	if params := rec.all()[0].params; params["exp_dur"] != "5" {
		t.Errorf("parameters not forwarded: %v", params)
	}
}

func TestMakeEnvRewardScale(t *testing.T) {
	rec := &envRecorder{episodeLen: 10, rewards: []float64{2}}
	rec.register("scalefake-v0")

	for _, scale := range []float64{1.0, 0.25} {
		env, err := MakeEnv("scalefake-v0", "gym", &Config{RewardScale: scale})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := env.Reset(); err != nil {
			env.Close()
			t.Fatal(err)
		}
		_, rew, _, err := env.Step([]float64{0})
		env.Close()
		if err != nil {
			t.Fatal(err)
		}
		if rew != 2*scale {
			t.Errorf("scale %f: expected reward %f but got %f", scale,
				2*scale, rew)
		}
	}
}

func TestMakeEnvFlatten(t *testing.T) {
	Register("dictfake-v0", func(id string, cfg *Config) (io.Closer, error) {
		return &testDictEnv{obs: map[string][]float64{
			"b": {2},
			"a": {1},
		}}, nil
	})

	env, err := MakeEnv("dictfake-v0", "gym", &Config{FlattenDict: true})
	if err != nil {
		t.Fatal(err)
	}
	defer env.Close()
	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != 2 || obs[0] != 1 || obs[1] != 2 {
		t.Errorf("unexpected obs: %v", obs)
	}

	if _, err := MakeEnv("dictfake-v0", "gym", nil); err == nil {
		t.Error("expected an error without flattening")
	}
}

func TestMakeEnvMonitorFile(t *testing.T) {
	clearRankEnv(t)

	rec := &envRecorder{episodeLen: 2}
	rec.register("monfake-v0")

	dir := t.TempDir()
	env, err := MakeEnv("monfake-v0", "gym", &Config{
		Replica: 4,
		LogDir:  dir,
	})
	if err != nil {
		t.Fatal(err)
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

	path := filepath.Join(dir, "0.4.monitor.csv")
	if _, err := os.Stat(path); err != nil {
		files, _ := ioutil.ReadDir(dir)
		var names []string
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Fatalf("missing monitor file %s (found %v)", path, names)
	}
}
