package combat

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"aggrosim/internal/dist"
)

// Decision is what a character intends to do next. The zero value means
// "do nothing this round".
type Decision struct {
	Ability *AbilityState
	Target  *Character
	// Area decisions hit every living opponent at impact time.
	Area bool
}

func (d Decision) IsPass() bool { return d.Ability == nil }

func (d Decision) String() string {
	switch {
	case d.IsPass():
		return "pass"
	case d.Area:
		return d.Ability.Ability.Name + " -> all"
	}
	return fmt.Sprintf("%s -> %s", d.Ability.Ability.Name, d.Target)
}

// DecisionPolicy picks the next action for an idle character.
type DecisionPolicy interface {
	Decide(c *Character, now float64) (Decision, error)
}

// DecisionEngine is the default policy. It holds no per-call state.
type DecisionEngine struct {
	Roster *Roster
	Rng    *rand.Rand
	Tuning Tuning
	Log    *zap.Logger
}

// Decide runs the full pipeline: score abilities, maybe pass, sample an
// ability, then resolve a target for it. An error only comes from an invalid
// sampling temperature.
func (e *DecisionEngine) Decide(c *Character, now float64) (Decision, error) {
	if c.IsDead() {
		return Decision{}, nil
	}
	log := e.logger()
	temp := c.Temperature()

	abilities := e.AbilityDistribution(c, now)
	if abilities.Len() == 0 {
		return Decision{}, nil
	}
	top, _ := abilities.Max()
	top = clamp(top, 0, 1)

	if e.Tuning.DoNothingScale > 0 {
		idle := dist.FromPairs([]bool{true, false}, []float64{1 - top, top})
		pass, _, err := dist.Sample(idle, temp*e.Tuning.DoNothingScale, e.Rng)
		if err != nil {
			return Decision{}, fmt.Errorf("decide %s: %w", c.Name, err)
		}
		if pass {
			log.Debug("pass", zap.String("who", c.Name), zap.Stringer("abilities", abilities))
			return Decision{}, nil
		}
	}

	picked, ok, err := dist.Sample(abilities, temp, e.Rng)
	if err != nil {
		return Decision{}, fmt.Errorf("decide %s: %w", c.Name, err)
	}
	if !ok {
		return Decision{}, nil
	}

	d := Decision{Ability: picked}
	ab := picked.Ability
	switch {
	case hasStrategy(ab, TargetAll):
		if len(e.Roster.Opponents(c)) == 0 {
			return Decision{}, nil
		}
		d.Area = true
	case hasStrategy(ab, TargetSelf):
		d.Target = c
	case c.Side == SideEnemy:
		d.Target = e.enemyTarget(c)
	default:
		targets := e.TargetDistribution(c, ab)
		t, ok, err := dist.Sample(targets, temp, e.Rng)
		if err != nil {
			return Decision{}, fmt.Errorf("decide %s: %w", c.Name, err)
		}
		if ok {
			d.Target = t
		}
	}
	if !d.Area && d.Target == nil {
		log.Debug("no target", zap.String("who", c.Name), zap.String("ability", ab.Name))
		return Decision{}, nil
	}
	log.Debug("decided", zap.String("who", c.Name), zap.Stringer("decision", d), zap.Stringer("abilities", abilities))
	return d, nil
}

func (e *DecisionEngine) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
