package envs

import (
	"github.com/ordinskiy/rl/data"
	"github.com/ordinskiy/rl/specs"
)

// Environment adapts some game or system to the record-oriented reset/step
// contract. Implementations own their underlying handle exclusively and are
// not safe for concurrent use.
type Environment interface {
	// Reset starts a new episode and returns the first record:
	// observation fields plus an all-false "done" flag.
	Reset() (*data.Record, error)
	// Step consumes the "action" field of the record, advances the episode
	// and returns the resulting record: observation fields, "reward" and
	// "done". Environment-native errors propagate unwrapped.
	Step(*data.Record) (*StepResult, error)

	ObservationSpec() *specs.Composite
	InputSpec() *specs.Composite
	ActionSpec() specs.Spec
	RewardSpec() specs.Spec
}

// StepResult carries the record produced by a step together with the action
// spec governing the next step. Environments whose legal actions depend on
// state return a fresh spec every step so callers never read a mutating
// shared one; ActionSpec is nil when the spec is static.
type StepResult struct {
	Record     *data.Record
	ActionSpec specs.Spec
}
