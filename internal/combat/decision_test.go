package combat

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawPriority_ConditionBonusClamps(t *testing.T) {
	s := newTestSim(t, 1)
	ab := strike("desperate", 5)
	ab.Conditions = []Condition{{Type: CondHealth, Op: OpLess, Threshold: 0.3, LowDelta: 0.4, HighDelta: 0.4}}
	c := spawn(t, s, dummy("a", SideAlly, 100, ab), 0)
	c.Damage(80)
	require.InDelta(t, 0.2, c.HealthFraction(), 1e-12)

	assert.InDelta(t, 0.9, s.Engine().RawPriority(c, ab), 1e-12)

	ab.LowPriority, ab.HighPriority = 0.8, 0.8
	assert.Equal(t, 1.0, s.Engine().RawPriority(c, ab))
}

func TestRawPriority_InterpolatesByStrength(t *testing.T) {
	s := newTestSim(t, 1)
	ab := strike("jab", 5)
	ab.LowPriority, ab.HighPriority = 0.2, 0.6
	spec := dummy("a", SideAlly, 100, ab)
	spec.AIStrength = 0.5
	c := spawn(t, s, spec, 0)

	assert.InDelta(t, 0.4, s.Engine().RawPriority(c, ab), 1e-12)
}

func TestRawPriority_ThreatConditions(t *testing.T) {
	s := newTestSim(t, 3)
	tank := spawn(t, s, dummy("tank", SideAlly, 100), 1)
	other := spawn(t, s, dummy("other", SideAlly, 100), 0)
	e1 := spawn(t, s, dummy("e1", SideEnemy, 100), 0)
	e2 := spawn(t, s, dummy("e2", SideEnemy, 100), 1)
	spawn(t, s, dummy("e3", SideEnemy, 100), 2)
	e1.AddThreat(tank, 10)
	e2.AddThreat(tank, 5)
	e2.AddThreat(other, 8)

	eng := s.Engine()
	assert.Equal(t, 3.0, eng.conditionValue(tank, CondNumEnemies))
	assert.Equal(t, 1.0, eng.conditionValue(tank, CondNumEnemiesWithThreat))
	assert.Equal(t, 2.0, eng.conditionValue(tank, CondNumEnemiesWithoutThreat))

	ab := strike("taunt", 0)
	ab.LowPriority, ab.HighPriority = 0.1, 0.1
	ab.Conditions = []Condition{{Type: CondNumEnemiesWithoutThreat, Op: OpEqual, Threshold: 2, LowDelta: 0.5, HighDelta: 0.5}}
	assert.InDelta(t, 0.6, eng.RawPriority(tank, ab), 1e-12)
	ab.Conditions[0].Threshold = 2.0000001
	assert.InDelta(t, 0.1, eng.RawPriority(tank, ab), 1e-12)
}

func TestOperatorHolds(t *testing.T) {
	assert.True(t, OpGreater.Holds(2, 1))
	assert.False(t, OpGreater.Holds(1, 1))
	assert.True(t, OpLess.Holds(0.1, 0.3))
	assert.True(t, OpEqual.Holds(0.3, 0.3))
	a, b := 0.1, 0.2
	assert.False(t, OpEqual.Holds(a+b, 0.3))
	assert.True(t, OpNotEqual.Holds(a+b, 0.3))
}

func TestReadiness(t *testing.T) {
	assert.Equal(t, 1.0, readiness(0, 1))
	assert.InDelta(t, math.Exp(-1), readiness(1, 1), 1e-12)
	assert.InDelta(t, math.Exp(-2), readiness(1, 0.5), 1e-12)
	assert.Equal(t, 0.0, readiness(1, 0))
	assert.Equal(t, 0.0, readiness(math.Inf(1), 1))
}

func TestTimeUntilUsable(t *testing.T) {
	ab := strike("big", 10)
	ab.ResourceCost = 30
	spec := dummy("a", SideAlly, 100, ab)
	spec.StartingResource = 10
	spec.ResourceRegen = 5
	c := NewCharacter(spec)
	st := c.Abilities[0]
	st.NextReady = 2

	assert.Equal(t, 4.0, timeUntilUsable(c, st, 0))
	assert.Equal(t, 10.0, timeUntilUsable(c, st, -8))

	c.ResourceRegen = 0
	assert.True(t, math.IsInf(timeUntilUsable(c, st, 0), 1))

	c.AddResource(50)
	assert.Equal(t, 2.0, timeUntilUsable(c, st, 0))
}

func TestAbilityDistribution_Penalties(t *testing.T) {
	s := newTestSim(t, 1)
	big := strike("big", 50)
	big.ResourceCost = 50
	big.LowPriority, big.HighPriority = 0.9, 0.9
	mid := strike("mid", 10)
	mid.ResourceCost = 10
	free := strike("free", 5)
	free.LowPriority, free.HighPriority = 0.4, 0.4
	spec := dummy("a", SideAlly, 100, big, mid, free)
	spec.StartingResource = 20
	spec.ResourceRegen = 10
	c := spawn(t, s, spec, 0)

	d := s.Engine().AbilityDistribution(c, 0)

	require.Equal(t, 3, d.Len())
	w, _ := d.Get(c.Abilities[0])
	assert.InDelta(t, 0.9*math.Exp(-3), w, 1e-12)
	w, _ = d.Get(c.Abilities[1])
	assert.InDelta(t, 0.5*0.5, w, 1e-12)
	w, _ = d.Get(c.Abilities[2])
	assert.InDelta(t, 0.4, w, 1e-12)
}

func TestDecide_PassesWhenNothingIsWorthDoing(t *testing.T) {
	s := newTestSim(t, 1, func(t *Tuning) { t.DoNothingScale = 0.1 })
	idle := strike("idle", 1)
	idle.LowPriority, idle.HighPriority = 0, 0
	c := spawn(t, s, dummy("a", SideAlly, 100, idle), 0)
	spawn(t, s, dummy("e", SideEnemy, 100), 0)

	for i := 0; i < 50; i++ {
		d, err := s.Engine().Decide(c, 0)
		require.NoError(t, err)
		assert.True(t, d.IsPass())
	}
}

func TestDecide_NoAbilitiesIsPass(t *testing.T) {
	s := newTestSim(t, 1)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)

	d, err := s.Engine().Decide(c, 0)

	require.NoError(t, err)
	assert.True(t, d.IsPass())
	assert.Equal(t, "pass", d.String())
}

func TestDecide_SelfAndAll(t *testing.T) {
	s := newTestSim(t, 2)
	heal := strike("renew", 0)
	heal.Targeting = []TargetWeight{{Strategy: TargetSelf, Weight: 1}}
	c := spawn(t, s, dummy("a", SideAlly, 100, heal), 0)
	spawn(t, s, dummy("e", SideEnemy, 100), 1)

	d, err := s.Engine().Decide(c, 0)
	require.NoError(t, err)
	assert.Same(t, c, d.Target)
	assert.False(t, d.Area)

	heal.Targeting = []TargetWeight{{Strategy: TargetAll, Weight: 1}, {Strategy: TargetClosest, Weight: 1}}
	d, err = s.Engine().Decide(c, 0)
	require.NoError(t, err)
	assert.True(t, d.Area)
	assert.Nil(t, d.Target)
	assert.Equal(t, "renew -> all", d.String())
}

func TestDecide_AllyTargetsClosest(t *testing.T) {
	s := newTestSim(t, 3)
	c := spawn(t, s, dummy("a", SideAlly, 100, strike("stab", 5)), 1)
	spawn(t, s, dummy("far", SideEnemy, 100), 0)
	near := spawn(t, s, dummy("near", SideEnemy, 100), 1)

	for i := 0; i < 20; i++ {
		d, err := s.Engine().Decide(c, 0)
		require.NoError(t, err)
		assert.Same(t, near, d.Target)
	}
}

func TestDecide_ClosestHoldsAtModerateStrength(t *testing.T) {
	s := newTestSim(t, 3)
	c := spawn(t, s, dummy("a", SideAlly, 100, strike("stab", 5)), 1)
	c.AIStrength = 0.5
	spawn(t, s, dummy("left", SideEnemy, 100), 0)
	near := spawn(t, s, dummy("near", SideEnemy, 100), 1)
	spawn(t, s, dummy("right", SideEnemy, 100), 2)

	only := s.Engine().StrategyDistribution(c, TargetClosest)
	assert.Equal(t, []*Character{near}, only.Keys())

	for i := 0; i < 300; i++ {
		d, err := s.Engine().Decide(c, 0)
		require.NoError(t, err)
		require.Same(t, near, d.Target, "draw %d", i)
	}

	for _, o := range s.Roster.Opponents(c) {
		o.Damage(100)
	}
	assert.Zero(t, s.Engine().StrategyDistribution(c, TargetClosest).Len())
}

func TestDecide_EnemyFollowsThreat(t *testing.T) {
	s := newTestSim(t, 3)
	front := spawn(t, s, dummy("front", SideAlly, 100), 0)
	back := spawn(t, s, dummy("back", SideAlly, 100), 2)
	// targeting weights do not matter for the enemy side
	ab := strike("claw", 5)
	ab.Targeting = []TargetWeight{{Strategy: TargetLowestHealth, Weight: 1}}
	e := spawn(t, s, dummy("goblin", SideEnemy, 100, ab), 0)
	back.Damage(90)

	d, err := s.Engine().Decide(e, 0)
	require.NoError(t, err)
	assert.Same(t, front, d.Target)

	e.AddThreat(back, 50)
	e.AddThreat(front, 20)
	d, err = s.Engine().Decide(e, 0)
	require.NoError(t, err)
	assert.Same(t, back, d.Target)

	back.Damage(100)
	d, err = s.Engine().Decide(e, 0)
	require.NoError(t, err)
	assert.Same(t, front, d.Target)
}

func TestThreatWeights(t *testing.T) {
	me, rival, o := named("me"), named("rival"), named("o")

	assert.Equal(t, noThreatWeight, tankThreatWeight(me, o))
	assert.Equal(t, 0.0, damageThreatWeight(me, o))

	o.AddThreat(me, 30)
	o.AddThreat(rival, 10)
	assert.InDelta(t, 10.0/30.0, tankThreatWeight(me, o), 1e-12)
	assert.Equal(t, 0.0, damageThreatWeight(me, o))

	o.AddThreat(rival, 30)
	assert.InDelta(t, 1.5+3.5*0.25, tankThreatWeight(me, o), 1e-12)
	assert.InDelta(t, 0.25, damageThreatWeight(me, o), 1e-12)
}

func TestTargetDistribution_CombinesStrategies(t *testing.T) {
	s := newTestSim(t, 3)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)
	near := spawn(t, s, dummy("near", SideEnemy, 100), 0)
	weak := spawn(t, s, dummy("weak", SideEnemy, 100), 2)
	weak.Damage(60)

	ab := strike("shot", 5)
	ab.Targeting = []TargetWeight{{Strategy: TargetClosest, Weight: 1}, {Strategy: TargetLowestHealth, Weight: 3}}
	d := s.Engine().TargetDistribution(c, ab)

	// closest alone normalizes to zero; lowest health puts weak on top
	w, _ := d.Get(near)
	assert.InDelta(t, 0.0, w, 1e-12)
	w, _ = d.Get(weak)
	assert.InDelta(t, 3.0, w, 1e-12)
}

func TestStrategyDistribution_StatTransforms(t *testing.T) {
	s := newTestSim(t, 2)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)
	specA := dummy("ea", SideEnemy, 100)
	specA.PowerLevel = 3
	ea := spawn(t, s, specA, 0)
	eb := spawn(t, s, dummy("eb", SideEnemy, 40), 1)
	eng := s.Engine()

	d := eng.StrategyDistribution(c, TargetHighestHealth)
	w, _ := d.Get(ea)
	assert.Equal(t, 100.0, w)

	d = eng.StrategyDistribution(c, TargetLowestHealth)
	w, _ = d.Get(eb)
	assert.InDelta(t, 1.0/41, w, 1e-12)

	d = eng.StrategyDistribution(c, TargetHighestPowerLevel)
	w, _ = d.Get(ea)
	assert.Equal(t, 3.0, w)

	d = eng.StrategyDistribution(c, TargetLowestPowerLevel)
	w, _ = d.Get(eb)
	assert.Equal(t, 1.0, w)

	assert.Equal(t, 0, eng.StrategyDistribution(c, TargetAll).Len())
}

func TestCharacterDecide_PolicyErrorDropsPending(t *testing.T) {
	s := newTestSim(t, 1)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)
	c.pending = &Decision{}
	c.Policy = &fixedPolicy{err: errors.New("boom")}

	c.decide(0)

	assert.Nil(t, c.Pending())
	assert.Equal(t, 0, s.stats.decisions)
}

func TestParseTargetingStrategy(t *testing.T) {
	for i, name := range strategyNames {
		st, err := ParseTargetingStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, TargetingStrategy(i), st)
		assert.Equal(t, name, st.String())
	}
	_, err := ParseTargetingStrategy("random")
	assert.Error(t, err)
}
