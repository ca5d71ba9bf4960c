package smac

import (
	"errors"
	"testing"

	"github.com/ordinskiy/rl/data"
	"github.com/ordinskiy/rl/specs"
)

type fakeClient struct {
	nAgents  int
	nActions int
	obsShape int
	seed     int64

	avail   [][]bool
	resets  int
	steps   int
	stepErr error

	lastActions []int
	onStep      func(*fakeClient)
}

var _ Client = &fakeClient{}

func newFakeClient() *fakeClient {
	f := &fakeClient{nAgents: 2, nActions: 4, obsShape: 3, seed: 42}
	f.avail = make([][]bool, f.nAgents)
	for i := range f.avail {
		row := make([]bool, f.nActions)
		for j := range row {
			row[j] = true
		}
		f.avail[i] = row
	}
	return f
}

func (f *fakeClient) Reset() ([][]float64, error) {
	f.resets++
	return f.Obs()
}

func (f *fakeClient) Obs() ([][]float64, error) {
	obs := make([][]float64, f.nAgents)
	for i := range obs {
		row := make([]float64, f.obsShape)
		for j := range row {
			row[j] = float64(f.steps) + 0.1*float64(i)
		}
		obs[i] = row
	}
	return obs, nil
}

func (f *fakeClient) Step(actions []int) (float64, bool, *StepInfo, error) {
	if f.stepErr != nil {
		return 0, false, nil, f.stepErr
	}
	f.steps++
	f.lastActions = actions
	if f.onStep != nil {
		f.onStep(f)
	}
	return 1.5, false, &StepInfo{}, nil
}

func (f *fakeClient) AvailActions() ([][]bool, error) {
	out := make([][]bool, len(f.avail))
	for i, row := range f.avail {
		out[i] = append([]bool(nil), row...)
	}
	return out, nil
}

func (f *fakeClient) Info() (*EnvInfo, error) {
	return &EnvInfo{
		MapName:      "fake",
		NAgents:      f.nAgents,
		NActions:     f.nActions,
		ObsShape:     f.obsShape,
		EpisodeLimit: 10,
	}, nil
}

func (f *fakeClient) Seed() (int64, error) { return f.seed, nil }

func (f *fakeClient) Close() error { return nil }

func newTestWrapper(t *testing.T, f *fakeClient) *Wrapper {
	t.Helper()
	w, err := NewWrapper(Config{Client: f, Seed: 42})
	if err != nil {
		t.Fatalf("NewWrapper: %v", err)
	}
	return w
}

func TestNewWrapperConfigErrors(t *testing.T) {
	if _, err := NewWrapper(Config{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty config: got %v", err)
	}
	if _, err := NewEnv("", Config{}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("empty map name: got %v", err)
	}
}

func TestWrapperSpecs(t *testing.T) {
	f := newFakeClient()
	w := newTestWrapper(t, f)

	if f.resets != 1 {
		t.Errorf("construction should reset the environment once, got %d", f.resets)
	}
	obsSpec, ok := w.ObservationSpec().Get("observation")
	if !ok {
		t.Fatal("observation spec missing")
	}
	if s := obsSpec.Shape(); s[0] != f.nAgents || s[1] != f.obsShape {
		t.Errorf("observation shape = %v", s)
	}
	if w.RewardSpec().DType() != data.Float64 {
		t.Errorf("reward dtype = %v", w.RewardSpec().DType())
	}
	actionSpec, ok := w.InputSpec().Get("action")
	if !ok {
		t.Fatal("action spec missing")
	}
	if s := actionSpec.Shape(); s[0] != f.nAgents || s[1] != f.nActions {
		t.Errorf("action shape = %v", s)
	}
}

func TestResetRecord(t *testing.T) {
	f := newFakeClient()
	w := newTestWrapper(t, f)

	rec, err := w.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := w.ObservationSpec().ValidateRecord(rec); err != nil {
		t.Errorf("reset observation does not match spec: %v", err)
	}
	done, ok := rec.Get("done")
	if !ok {
		t.Fatal("reset record has no done field")
	}
	if done.DType() != data.Bool || !done.SameShape([]int{1}) {
		t.Errorf("done = %v", done)
	}
	for _, v := range done.Bools() {
		if v {
			t.Error("done must start all false")
		}
	}
}

func TestStepRecord(t *testing.T) {
	f := newFakeClient()
	w := newTestWrapper(t, f)
	if _, err := w.Reset(); err != nil {
		t.Fatal(err)
	}

	action := w.ActionSpec().Rand(w.rng)
	rec := data.NewRecord(nil, "")
	rec.Set("action", action)
	out, err := w.Step(rec)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	if err := w.ObservationSpec().ValidateRecord(out.Record); err != nil {
		t.Errorf("step observation does not match spec: %v", err)
	}
	reward := out.Record.MustGet("reward")
	if reward.DType() != w.RewardSpec().DType() || !reward.SameShape([]int{1}) {
		t.Errorf("reward = %v", reward)
	}
	if reward.Float64s()[0] != 1.5 {
		t.Errorf("reward value = %v", reward.Float64s()[0])
	}
	if out.Record.MustGet("done").DType() != data.Bool {
		t.Error("done must be bool")
	}
	if len(f.lastActions) != f.nAgents {
		t.Errorf("environment received %d actions", len(f.lastActions))
	}
}

func TestActionSpecRecomputedAfterStep(t *testing.T) {
	f := newFakeClient()
	f.onStep = func(f *fakeClient) {
		// agent 0 loses action 2 after the first step
		f.avail[0][2] = false
	}
	w := newTestWrapper(t, f)
	if _, err := w.Reset(); err != nil {
		t.Fatal(err)
	}

	before := w.ActionSpec().(*specs.OneHot).Mask().Bools()
	out, err := w.RandStep()
	if err != nil {
		t.Fatalf("RandStep: %v", err)
	}
	if out.ActionSpec == nil {
		t.Fatal("step must return the refreshed action spec")
	}
	after := out.ActionSpec.(*specs.OneHot).Mask().Bools()

	if !before[2] {
		t.Fatal("action 2 should start available")
	}
	if after[2] {
		t.Error("action 2 should be unavailable after the step")
	}
	// the accessor reflects the same refreshed spec
	if w.ActionSpec().(*specs.OneHot).Mask().Bools()[2] {
		t.Error("accessor still reports the stale mask")
	}
}

func TestStepErrorsPassThrough(t *testing.T) {
	f := newFakeClient()
	w := newTestWrapper(t, f)
	if _, err := w.Reset(); err != nil {
		t.Fatal(err)
	}

	native := errors.New("sc2: invalid action for unit 1")
	f.stepErr = native
	_, err := w.RandStep()
	if !errors.Is(err, native) {
		t.Errorf("environment error was rewritten: %v", err)
	}
}

func TestSeedImmutable(t *testing.T) {
	f := newFakeClient()
	w := newTestWrapper(t, f)

	if err := w.SetSeed(7); !errors.Is(err, ErrUnsupportedOp) {
		t.Errorf("SetSeed: got %v", err)
	}
	if _, err := w.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, err := w.RandStep(); err != nil {
		t.Fatal(err)
	}
	// still refused, regardless of prior call history
	if err := w.SetSeed(7); !errors.Is(err, ErrUnsupportedOp) {
		t.Errorf("SetSeed after steps: got %v", err)
	}

	seed, err := w.Seed()
	if err != nil || seed != 42 {
		t.Errorf("Seed() = %d, %v", seed, err)
	}
}

func TestSpecDerivationBeforeBuild(t *testing.T) {
	w := &Wrapper{client: newFakeClient()}
	if err := w.makeSpecs(); !errors.Is(err, ErrSpecDerivation) {
		t.Errorf("makeSpecs before build: got %v", err)
	}
}
