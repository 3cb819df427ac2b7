package envtools

import (
	"reflect"
	"testing"
)

func TestFlattenEnvOrder(t *testing.T) {
	dict := &testDictEnv{obs: map[string][]float64{
		"b": {3, 4, 5},
		"a": {1, 2},
	}}
	env := &FlattenEnv{Env: dict}

	obs, err := env.Reset()
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(obs, expected) {
		t.Errorf("expected %v but got %v", expected, obs)
	}

	obs, _, _, err = env.Step([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(obs, expected) {
		t.Errorf("expected %v but got %v", expected, obs)
	}
}

func TestFlattenEnvCapabilities(t *testing.T) {
	env := &FlattenEnv{Env: &seedableDictEnv{}}
	if _, ok := FindSeeder(env); !ok {
		t.Error("seeder not found through the flatten wrapper")
	}
}

type seedableDictEnv struct {
	testDictEnv
}

func (s *seedableDictEnv) Seed(seed int64) error {
	return nil
}
