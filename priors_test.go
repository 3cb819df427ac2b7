package envtools

import "testing"

func TestPriorsFixationBreak(t *testing.T) {
	env := newPriorsEnv()
	if err := env.Seed(1); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	_, rew, done, err := env.Step([]float64{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if rew != -0.1 {
		t.Errorf("expected reward -0.1 but got %f", rew)
	}
	if done {
		t.Error("one broken trial should not end the episode")
	}
}

func TestPriorsFixationReward(t *testing.T) {
	env := newPriorsEnv()
	env.Seed(1)
	if err := env.UpdateParams(map[string]string{
		"reward": "-0.1,0.05,1,-1",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	_, rew, _, err := env.Step([]float64{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if rew != 0.05 {
		t.Errorf("expected reward 0.05 but got %f", rew)
	}
}

func TestPriorsChoice(t *testing.T) {
	env := newPriorsEnv()
	env.Seed(42)
	// With full evidence, the stimulus always marks the
	// correct side.
	if err := env.UpdateParams(map[string]string{
		"trial_dur": "2",
		"stim_ev":   "1",
		"exp_dur":   "10",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	for trial := 0; trial < 10; trial++ {
		obs, rew, _, err := env.Step([]float64{1, 0, 0})
		if err != nil {
			t.Fatal(err)
		}
		if rew != 0 {
			t.Fatalf("trial %d: expected fixation reward 0 but got %f",
				trial, rew)
		}
		choice := make([]float64, 3)
		choice[maxIndex(obs[1:])+1] = 1
		_, rew, done, err := env.Step(choice)
		if err != nil {
			t.Fatal(err)
		}
		if rew != 1 {
			t.Errorf("trial %d: expected hit reward 1 but got %f", trial, rew)
		}
		if done != (trial == 9) {
			t.Errorf("trial %d: done should be %v", trial, trial == 9)
		}
	}
}

func TestPriorsWrongChoice(t *testing.T) {
	env := newPriorsEnv()
	env.Seed(7)
	if err := env.UpdateParams(map[string]string{
		"trial_dur": "2",
		"stim_ev":   "1",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Reset(); err != nil {
		t.Fatal(err)
	}
	obs, _, _, err := env.Step([]float64{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	wrong := make([]float64, 3)
	wrong[2-maxIndex(obs[1:])] = 1
	_, rew, _, err := env.Step(wrong)
	if err != nil {
		t.Fatal(err)
	}
	if rew != -1 {
		t.Errorf("expected fail reward -1 but got %f", rew)
	}
}

func TestPriorsUpdateParamsErrors(t *testing.T) {
	env := newPriorsEnv()
	if err := env.UpdateParams(map[string]string{"exp_dur": "ten"}); err == nil {
		t.Error("expected an error for a non-numeric value")
	}
	if err := env.UpdateParams(map[string]string{"reward": "1,2"}); err == nil {
		t.Error("expected an error for a short reward list")
	}
	// Wrapper-bundle settings share the option map and
	// must not fail here.
	if err := env.UpdateParams(map[string]string{"frame_stack": "true"}); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestPriorsSeedDeterminism(t *testing.T) {
	sides := func(seed int64) []int {
		env := newPriorsEnv()
		env.Seed(seed)
		env.UpdateParams(map[string]string{
			"trial_dur": "2",
			"stim_ev":   "1",
			"exp_dur":   "20",
		})
		if _, err := env.Reset(); err != nil {
			t.Fatal(err)
		}
		var res []int
		for trial := 0; trial < 20; trial++ {
			obs, _, _, err := env.Step([]float64{1, 0, 0})
			if err != nil {
				t.Fatal(err)
			}
			side := maxIndex(obs[1:]) + 1
			res = append(res, side)
			choice := make([]float64, 3)
			choice[side] = 1
			if _, _, _, err := env.Step(choice); err != nil {
				t.Fatal(err)
			}
		}
		return res
	}
	first := sides(123)
	second := sides(123)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("trial %d: %d != %d", i, first[i], second[i])
		}
	}
}
