package bridge

import (
	"testing"

	"github.com/ordinskiy/rl/envs/smac"
)

// pickActions follows a simple doctrine: attack when possible, otherwise
// close in eastwards, otherwise take whatever is legal.
func pickActions(t *testing.T, s *Sim) []int {
	t.Helper()
	avail, err := s.AvailActions()
	if err != nil {
		t.Fatal(err)
	}
	actions := make([]int, len(avail))
	for i, row := range avail {
		actions[i] = -1
		for _, a := range []int{actionAttackBase, actionEast, actionStop, actionNoop} {
			if a < len(row) && row[a] {
				actions[i] = a
				break
			}
		}
		if actions[i] == -1 {
			for a, ok := range row {
				if ok {
					actions[i] = a
					break
				}
			}
		}
	}
	return actions
}

func TestSimUnknownMap(t *testing.T) {
	if _, err := NewSim("nosuchmap", 0, nil); err == nil {
		t.Error("unknown map should fail")
	}
}

func TestSimInfoShapes(t *testing.T) {
	s, err := NewSim("3m", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, err := s.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.NAgents != 3 || info.NActions != 6+3 {
		t.Errorf("info = %+v", info)
	}
	obs, err := s.Obs()
	if err != nil {
		t.Fatal(err)
	}
	if len(obs) != info.NAgents || len(obs[0]) != info.ObsShape {
		t.Errorf("obs dims = %dx%d, want %dx%d", len(obs), len(obs[0]), info.NAgents, info.ObsShape)
	}
	avail, err := s.AvailActions()
	if err != nil {
		t.Fatal(err)
	}
	if len(avail) != info.NAgents || len(avail[0]) != info.NActions {
		t.Errorf("avail dims = %dx%d", len(avail), len(avail[0]))
	}
}

func TestSimAvailabilityChangesAcrossTurns(t *testing.T) {
	s, err := NewSim("2m_vs_1z", 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := s.Info()

	attackSeen := false
	var lastReward float64
	done := false
	for step := 0; step < info.EpisodeLimit && !done; step++ {
		avail, _ := s.AvailActions()
		// whichever agent closes the distance first gets the attack
		for i := range avail {
			if avail[i][actionAttackBase] {
				attackSeen = true
			}
		}
		var info2 *smac.StepInfo
		lastReward, done, info2, err = s.Step(pickActions(t, s))
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if done && !info2.BattleWon {
			t.Fatalf("expected a win, got %+v", info2)
		}
	}
	if !attackSeen {
		t.Fatal("attack never became available")
	}
	if !done {
		t.Fatal("episode did not terminate")
	}
	if lastReward < rewardWin {
		t.Errorf("final reward %v should include the win bonus", lastReward)
	}

	// with the lone enemy dead, attacking is no longer legal
	avail, _ := s.AvailActions()
	for i := range avail {
		if avail[i][actionAttackBase] {
			t.Errorf("agent %d can still attack a dead enemy", i)
		}
	}

	if _, _, _, err := s.Step(pickActions(t, s)); err == nil {
		t.Error("stepping a finished episode should fail")
	}
}

func TestSimDeadAgentOnlyNoop(t *testing.T) {
	s, err := NewSim("2m_vs_1z", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := s.Info()

	sawDead := false
	for step := 0; step < info.EpisodeLimit; step++ {
		avail, _ := s.AvailActions()
		actions := make([]int, info.NAgents)
		for i, row := range avail {
			if row[actionStop] {
				actions[i] = actionStop
			} else {
				actions[i] = actionNoop
			}
		}
		_, done, _, err := s.Step(actions)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		avail, _ = s.AvailActions()
		for i, row := range avail {
			if !row[actionNoop] {
				continue
			}
			sawDead = true
			for a := 1; a < len(row); a++ {
				if row[a] {
					t.Fatalf("dead agent %d still has action %d", i, a)
				}
			}
		}
		if done {
			break
		}
	}
	if !sawDead {
		t.Fatal("no agent died while standing still in melee range")
	}
}

func TestSimRejectsUnavailableAction(t *testing.T) {
	s, err := NewSim("3m", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	// noop is illegal for living units
	actions := make([]int, 3)
	if _, _, _, err := s.Step(actions); err == nil {
		t.Error("noop for a living agent should be rejected")
	}
}

func TestSimSeedFixed(t *testing.T) {
	s, err := NewSim("3m", 99, nil)
	if err != nil {
		t.Fatal(err)
	}
	seed, err := s.Seed()
	if err != nil || seed != 99 {
		t.Errorf("Seed() = %d, %v", seed, err)
	}
	if _, err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if seed, _ := s.Seed(); seed != 99 {
		t.Error("seed changed across reset")
	}
}

func TestSimOptions(t *testing.T) {
	s, err := NewSim("3m", 1, map[string]interface{}{
		"episode_limit": 5,
		"render":        true, // unknown keys are ignored
	})
	if err != nil {
		t.Fatal(err)
	}
	info, _ := s.Info()
	if info.EpisodeLimit != 5 {
		t.Fatalf("episode limit = %d, want 5", info.EpisodeLimit)
	}

	done := false
	for step := 0; step < 5; step++ {
		avail, _ := s.AvailActions()
		actions := make([]int, info.NAgents)
		for i, row := range avail {
			if row[actionStop] {
				actions[i] = actionStop
			}
		}
		if _, done, _, err = s.Step(actions); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
	if !done {
		t.Error("episode should hit the shortened limit")
	}

	if _, err := NewSim("3m", 1, map[string]interface{}{"episode_limit": "long"}); err == nil {
		t.Error("non-integer episode_limit should fail")
	}
	if _, err := NewSim("3m", 1, map[string]interface{}{"episode_limit": 0}); err == nil {
		t.Error("zero episode_limit should fail")
	}
}

func TestWrapperOverSim(t *testing.T) {
	sim, err := NewSim("3m", 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := smac.NewWrapper(smac.Config{Client: sim, Seed: 7})
	if err != nil {
		t.Fatalf("NewWrapper: %v", err)
	}

	rec, err := w.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.ObservationSpec().ValidateRecord(rec); err != nil {
		t.Fatalf("reset record: %v", err)
	}

	// sampled actions are always accepted: the mask and the environment's
	// own legality check agree
	for step := 0; step < 50; step++ {
		out, err := w.RandStep()
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if err := w.ObservationSpec().ValidateRecord(out.Record); err != nil {
			t.Fatalf("step %d record: %v", step, err)
		}
		if out.Record.MustGet("done").Bools()[0] {
			rec, err = w.Reset()
			if err != nil {
				t.Fatalf("reset after done: %v", err)
			}
			if err := w.ObservationSpec().ValidateRecord(rec); err != nil {
				t.Fatalf("post-done reset record: %v", err)
			}
		}
	}
}
