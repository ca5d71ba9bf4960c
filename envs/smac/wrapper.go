package smac

import (
	"fmt"

	erand "golang.org/x/exp/rand"

	"github.com/ordinskiy/rl/data"
	"github.com/ordinskiy/rl/envs"
	"github.com/ordinskiy/rl/specs"
)

type phase int

const (
	phaseUninitialized phase = iota
	phaseBuilt
	phaseSpecsReady
)

// Wrapper adapts one SMAC environment instance to the envs.Environment
// contract. It owns its Client exclusively: construction resets the
// environment once so introspection is valid, then derives the specs.
//
// The action spec is state-dependent: the availability mask is re-derived
// after every step (and on reset) and handed back through StepResult.
type Wrapper struct {
	client Client
	cfg    Config

	phase phase
	info  *EnvInfo

	obsSpec    *specs.Composite
	inputSpec  *specs.Composite
	actionSpec *specs.OneHot
	rewardSpec specs.Spec

	rng *erand.Rand
}

var _ envs.Environment = &Wrapper{}

// NewWrapper wraps a pre-built client binding.
func NewWrapper(cfg Config) (*Wrapper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: NewWrapper needs a pre-built Client; use NewEnv to create one by map name", ErrConfiguration)
	}
	w := &Wrapper{
		client: cfg.Client,
		cfg:    cfg,
		rng:    erand.New(erand.NewSource(uint64(cfg.Seed) + 1)),
	}
	if err := w.buildEnv(); err != nil {
		return nil, err
	}
	if err := w.makeSpecs(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewEnv creates the environment on a bridge by scenario name and wraps it.
func NewEnv(mapName string, cfg Config) (*Wrapper, error) {
	if mapName == "" {
		return nil, fmt.Errorf("%w: map name is required", ErrConfiguration)
	}
	cfg.MapName = mapName
	client, err := Connect(cfg.bridgeAddr(), cfg)
	if err != nil {
		return nil, err
	}
	cfg.Client = client
	return NewWrapper(cfg)
}

// buildEnv primes the environment. SMAC only exposes introspection (agent
// count, observation size, availability) after the first reset.
func (w *Wrapper) buildEnv() error {
	if _, err := w.client.Reset(); err != nil {
		return err
	}
	w.phase = phaseBuilt
	return nil
}

func (w *Wrapper) makeSpecs() error {
	if w.phase < phaseBuilt {
		return fmt.Errorf("%w: specs requested before the first reset", ErrSpecDerivation)
	}

	// Reward domain comes from the definition, the rest from the instance.
	rewardSpec, err := specs.NewUnbounded([]int{1}, data.Float64)
	if err != nil {
		return err
	}
	w.rewardSpec = rewardSpec

	info, err := w.client.Info()
	if err != nil {
		return err
	}
	w.info = info

	obsSpec, err := specs.NewUnbounded([]int{info.NAgents, info.ObsShape}, data.Float64)
	if err != nil {
		return err
	}
	w.obsSpec = specs.NewComposite()
	w.obsSpec.Set("observation", obsSpec)

	w.inputSpec = specs.NewComposite()
	if _, err := w.refreshActionSpec(); err != nil {
		return err
	}

	w.phase = phaseSpecsReady
	return nil
}

// refreshActionSpec re-derives the masked one-hot action spec from the
// environment's current availability.
func (w *Wrapper) refreshActionSpec() (*specs.OneHot, error) {
	avail, err := w.client.AvailActions()
	if err != nil {
		return nil, err
	}
	mask, err := data.FromBoolRows(avail)
	if err != nil {
		return nil, err
	}
	spec, err := specs.NewMaskedOneHot(mask)
	if err != nil {
		return nil, err
	}
	w.actionSpec = spec
	w.inputSpec.Set("action", spec)
	return spec, nil
}

func (w *Wrapper) newRecord() *data.Record {
	return data.NewRecord(nil, w.cfg.Device)
}

func (w *Wrapper) readObs(obs [][]float64) (*data.Tensor, error) {
	return data.FromRows(obs)
}

// Reset starts a new episode. The returned record carries the per-agent
// observation and an all-false done flag.
func (w *Wrapper) Reset() (*data.Record, error) {
	obs, err := w.client.Reset()
	if err != nil {
		return nil, err
	}
	obsT, err := w.readObs(obs)
	if err != nil {
		return nil, err
	}
	if _, err := w.refreshActionSpec(); err != nil {
		return nil, err
	}

	rec := w.newRecord()
	rec.Set("observation", obsT)
	rec.Set("done", data.Zeros(data.Bool, []int{1}))
	return rec, nil
}

// Step converts the record's one-hot "action" rows to native action indices,
// delegates, and repackages the outcome. Action legality is validated by the
// environment, not here; its errors pass through unwrapped.
func (w *Wrapper) Step(rec *data.Record) (*envs.StepResult, error) {
	action, ok := rec.Get("action")
	if !ok {
		return nil, fmt.Errorf("smac: step record has no \"action\" field")
	}
	native, err := w.actionSpec.ToNative(action)
	if err != nil {
		return nil, err
	}

	reward, done, _, err := w.client.Step(native)
	if err != nil {
		return nil, err
	}
	obs, err := w.client.Obs()
	if err != nil {
		return nil, err
	}
	obsT, err := w.readObs(obs)
	if err != nil {
		return nil, err
	}

	out := w.newRecord()
	out.Set("observation", obsT)
	out.Set("reward", data.Float64Value(reward))
	out.Set("done", data.BoolValue(done))

	// Available actions change every turn.
	next, err := w.refreshActionSpec()
	if err != nil {
		return nil, err
	}
	return &envs.StepResult{Record: out, ActionSpec: next}, nil
}

// RandStep samples a valid action from the current action spec and steps.
func (w *Wrapper) RandStep() (*envs.StepResult, error) {
	action := w.actionSpec.Rand(w.rng)
	rec := w.newRecord()
	rec.Set("action", action)
	return w.Step(rec)
}

func (w *Wrapper) ObservationSpec() *specs.Composite { return w.obsSpec }

func (w *Wrapper) InputSpec() *specs.Composite { return w.inputSpec }

func (w *Wrapper) ActionSpec() specs.Spec { return w.actionSpec }

func (w *Wrapper) RewardSpec() specs.Spec { return w.rewardSpec }

// Info returns the environment metadata captured at spec derivation.
func (w *Wrapper) Info() EnvInfo { return *w.info }

// SetSeed always fails: the benchmark fixes its seed when the environment is
// created.
func (w *Wrapper) SetSeed(int64) error {
	return fmt.Errorf("%w: seed cannot be changed once the environment is created", ErrUnsupportedOp)
}

// Seed reports the seed the environment was created with.
func (w *Wrapper) Seed() (int64, error) {
	return w.client.Seed()
}

func (w *Wrapper) Close() error {
	return w.client.Close()
}
