package bridge

import (
	"fmt"
	"math"

	erand "golang.org/x/exp/rand"

	"github.com/ordinskiy/rl/envs/smac"
	"github.com/ordinskiy/rl/util"
)

// Action layout, matching SMAC: noop is only legal for dead units, stop and
// the four moves for living ones, and one attack action per enemy.
const (
	actionNoop = iota
	actionStop
	actionNorth
	actionSouth
	actionEast
	actionWest
	actionAttackBase
)

const (
	fieldWidth   = 32.0
	fieldHeight  = 32.0
	unitHealth   = 45.0
	attackDamage = 6.0
	shootRange   = 6.0
	sightRange   = 9.0
	moveAmount   = 2.0

	rewardDeath = 10.0
	rewardWin   = 200.0
)

type unit struct {
	x, y   float64
	health float64
}

func (u *unit) alive() bool { return u.health > 0 }

func (u *unit) dist(o *unit) float64 {
	return math.Hypot(u.x-o.x, u.y-o.y)
}

// Sim is a simplified SMAC-like combat scenario: a line of agents against a
// line of enemies on a bounded field. It implements the same capability set
// as the remote bridge client, so wrappers can own it directly in-process.
// The seed is fixed at construction; episodes reuse the same stream.
type Sim struct {
	m    MapInfo
	seed int64
	rng  *erand.Rand

	agents  []unit
	enemies []unit
	steps   int
	done    bool
}

var _ smac.Client = &Sim{}

// NewSim builds a scenario instance. Options are the pass-through settings a
// remote backend would hand its environment constructor; the sim honors
// episode_limit and ignores keys it has no use for.
func NewSim(mapName string, seed int64, options map[string]interface{}) (*Sim, error) {
	m, ok := LookupMap(mapName)
	if !ok {
		return nil, fmt.Errorf("bridge: unknown map %q", mapName)
	}
	if v, ok := options["episode_limit"]; ok {
		n, ok := optionInt(v)
		if !ok || n <= 0 {
			return nil, fmt.Errorf("bridge: episode_limit option %v is not a positive integer", v)
		}
		m.EpisodeLimit = n
	}
	s := &Sim{
		m:    m,
		seed: seed,
		rng:  erand.New(erand.NewSource(uint64(seed))),
	}
	s.layout()
	return s, nil
}

// optionInt coerces a JSON-decoded option value to an int.
func optionInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

func (s *Sim) nActions() int { return actionAttackBase + s.m.NEnemies }

func (s *Sim) obsShape() int {
	return 4 + 5*s.m.NEnemies + 5*(s.m.NAgents-1)
}

func (s *Sim) layout() {
	jitter := func() float64 { return s.rng.Float64() - 0.5 }
	s.agents = make([]unit, s.m.NAgents)
	for i := range s.agents {
		s.agents[i] = unit{
			x:      fieldWidth/4 + jitter(),
			y:      fieldHeight*float64(i+1)/float64(s.m.NAgents+1) + jitter(),
			health: unitHealth,
		}
	}
	s.enemies = make([]unit, s.m.NEnemies)
	for i := range s.enemies {
		s.enemies[i] = unit{
			x:      3*fieldWidth/4 + jitter(),
			y:      fieldHeight*float64(i+1)/float64(s.m.NEnemies+1) + jitter(),
			health: unitHealth,
		}
	}
	s.steps = 0
	s.done = false
}

func (s *Sim) Reset() ([][]float64, error) {
	s.layout()
	return s.Obs()
}

func (s *Sim) availFor(i int) []bool {
	out := make([]bool, s.nActions())
	a := &s.agents[i]
	if !a.alive() {
		out[actionNoop] = true
		return out
	}
	out[actionStop] = true
	out[actionNorth] = a.y+moveAmount <= fieldHeight
	out[actionSouth] = a.y-moveAmount >= 0
	out[actionEast] = a.x+moveAmount <= fieldWidth
	out[actionWest] = a.x-moveAmount >= 0
	for e := range s.enemies {
		out[actionAttackBase+e] = s.enemies[e].alive() && a.dist(&s.enemies[e]) <= shootRange
	}
	return out
}

func (s *Sim) AvailActions() ([][]bool, error) {
	out := make([][]bool, s.m.NAgents)
	for i := range out {
		out[i] = s.availFor(i)
	}
	return out, nil
}

func (s *Sim) obsFor(i int) []float64 {
	out := make([]float64, 0, s.obsShape())
	a := &s.agents[i]
	if !a.alive() {
		return make([]float64, s.obsShape())
	}
	out = append(out, a.health/unitHealth, a.x/fieldWidth, a.y/fieldHeight, 1)
	appendUnit := func(u *unit) {
		d := a.dist(u)
		if !u.alive() || d > sightRange {
			out = append(out, 0, 0, 0, 0, 0)
			return
		}
		out = append(out, 1, d/sightRange, (u.x-a.x)/sightRange, (u.y-a.y)/sightRange, u.health/unitHealth)
	}
	for e := range s.enemies {
		appendUnit(&s.enemies[e])
	}
	for j := range s.agents {
		if j == i {
			continue
		}
		appendUnit(&s.agents[j])
	}
	return out
}

func (s *Sim) Obs() ([][]float64, error) {
	out := make([][]float64, s.m.NAgents)
	for i := range out {
		out[i] = s.obsFor(i)
	}
	return out, nil
}

// Step validates action legality itself: the wrapper deliberately does not.
func (s *Sim) Step(actions []int) (float64, bool, *smac.StepInfo, error) {
	if s.done {
		return 0, false, nil, fmt.Errorf("bridge: episode is over, reset the environment")
	}
	if len(actions) != s.m.NAgents {
		return 0, false, nil, fmt.Errorf("bridge: got %d actions for %d agents", len(actions), s.m.NAgents)
	}
	for i, a := range actions {
		if a < 0 || a >= s.nActions() {
			return 0, false, nil, fmt.Errorf("bridge: action %d out of range for agent %d", a, i)
		}
		if !s.availFor(i)[a] {
			return 0, false, nil, fmt.Errorf("bridge: action %d is not available to agent %d", a, i)
		}
	}

	reward := 0.0
	for i, a := range actions {
		agent := &s.agents[i]
		switch a {
		case actionNoop, actionStop:
		case actionNorth:
			agent.y = util.ClampFloat(agent.y+moveAmount, 0, fieldHeight)
		case actionSouth:
			agent.y = util.ClampFloat(agent.y-moveAmount, 0, fieldHeight)
		case actionEast:
			agent.x = util.ClampFloat(agent.x+moveAmount, 0, fieldWidth)
		case actionWest:
			agent.x = util.ClampFloat(agent.x-moveAmount, 0, fieldWidth)
		default:
			enemy := &s.enemies[a-actionAttackBase]
			dealt := math.Min(attackDamage, enemy.health)
			enemy.health -= dealt
			reward += dealt
			if !enemy.alive() {
				reward += rewardDeath
			}
		}
	}

	// Enemy turn: close in on the nearest living agent, attack when in range.
	for e := range s.enemies {
		enemy := &s.enemies[e]
		if !enemy.alive() {
			continue
		}
		target := s.nearestAgent(enemy)
		if target == nil {
			break
		}
		if enemy.dist(target) <= shootRange {
			target.health = math.Max(0, target.health-attackDamage)
			continue
		}
		dx, dy := target.x-enemy.x, target.y-enemy.y
		d := math.Hypot(dx, dy)
		enemy.x = util.ClampFloat(enemy.x+moveAmount*dx/d, 0, fieldWidth)
		enemy.y = util.ClampFloat(enemy.y+moveAmount*dy/d, 0, fieldHeight)
	}

	s.steps++
	info := &smac.StepInfo{}
	for i := range s.agents {
		if !s.agents[i].alive() {
			info.DeadAllies++
		}
	}
	for e := range s.enemies {
		if !s.enemies[e].alive() {
			info.DeadEnemies++
		}
	}
	switch {
	case info.DeadEnemies == s.m.NEnemies:
		reward += rewardWin
		info.BattleWon = true
		s.done = true
	case info.DeadAllies == s.m.NAgents:
		s.done = true
	case s.steps >= s.m.EpisodeLimit:
		s.done = true
	}
	return reward, s.done, info, nil
}

func (s *Sim) nearestAgent(from *unit) *unit {
	var best *unit
	bestDist := math.Inf(1)
	for i := range s.agents {
		if !s.agents[i].alive() {
			continue
		}
		if d := from.dist(&s.agents[i]); d < bestDist {
			best = &s.agents[i]
			bestDist = d
		}
	}
	return best
}

func (s *Sim) Info() (*smac.EnvInfo, error) {
	return &smac.EnvInfo{
		MapName:      s.m.Name,
		NAgents:      s.m.NAgents,
		NActions:     s.nActions(),
		ObsShape:     s.obsShape(),
		EpisodeLimit: s.m.EpisodeLimit,
	}, nil
}

func (s *Sim) Seed() (int64, error) { return s.seed, nil }

func (s *Sim) Close() error { return nil }
