package combat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// quietTuning removes the random parts of the timing so tests can count ticks.
func quietTuning() Tuning {
	t := DefaultTuning()
	t.GlobalCooldownJitter = 0
	t.DoNothingScale = 0
	return t
}

func newTestSim(t *testing.T, slots int, tune ...func(*Tuning)) *Simulation {
	t.Helper()
	tun := quietTuning()
	for _, fn := range tune {
		fn(&tun)
	}
	return NewSimulation(Options{Seed: 7, Slots: slots, Tuning: tun, Record: true})
}

func dummy(name string, side Side, hp int, abilities ...*Ability) CharacterSpec {
	return CharacterSpec{
		Name:          name,
		Side:          side,
		AIStrength:    1,
		MaxHealth:     hp,
		MaxResource:   100,
		RegenInterval: 1,
		Abilities:     abilities,
	}
}

func spawn(t *testing.T, s *Simulation, spec CharacterSpec, slot int) *Character {
	t.Helper()
	c := NewCharacter(spec)
	require.NoError(t, s.Spawn(c, slot))
	return c
}

// fixedPolicy always wants the same thing.
type fixedPolicy struct {
	d   Decision
	err error
}

func (p *fixedPolicy) Decide(*Character, float64) (Decision, error) { return p.d, p.err }

func runTicks(s *Simulation, n int) {
	for i := 0; i < n; i++ {
		s.Tick(s.Env.Delta)
	}
}

// tickUntil steps until cond holds, giving up after limit ticks.
func tickUntil(t *testing.T, s *Simulation, limit int, cond func() bool) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if cond() {
			return
		}
		s.Tick(s.Env.Delta)
	}
	require.True(t, cond(), "condition not reached after %d ticks", limit)
}

func eventsOf(s *Simulation, kind EventKind) []Event {
	var out []Event
	for _, ev := range s.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func strike(name string, damage int) *Ability {
	return &Ability{
		ID:               name,
		Name:             name,
		Damage:           damage,
		ThreatMultiplier: 1,
		LowPriority:      0.5,
		HighPriority:     0.5,
		Targeting:        []TargetWeight{{Strategy: TargetClosest, Weight: 1}},
	}
}

func effectTpl(kind EffectKind, value, duration float64) *EffectTemplate {
	return &EffectTemplate{
		ID:           kind.String(),
		Name:         kind.String(),
		Kind:         kind,
		Value:        value,
		Duration:     duration,
		TickInterval: 1,
		MaxStacks:    1,
	}
}
