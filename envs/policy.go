package envs

import (
	erand "golang.org/x/exp/rand"

	"github.com/ordinskiy/rl/data"
	"github.com/ordinskiy/rl/specs"
)

// Policy picks the next action from the current record under the action spec
// in force for this step.
type Policy interface {
	Reset()
	PickAction(step int, rec *data.Record, actionSpec specs.Spec) (*data.Tensor, error)
}

// RandomPolicy samples uniformly from the live action spec, so masked
// specs keep it inside the legal action set.
type RandomPolicy struct {
	rand *erand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: erand.New(erand.NewSource(seed)),
	}
}

func (p *RandomPolicy) Reset() {}

func (p *RandomPolicy) PickAction(_ int, _ *data.Record, actionSpec specs.Spec) (*data.Tensor, error) {
	return actionSpec.Rand(p.rand), nil
}
