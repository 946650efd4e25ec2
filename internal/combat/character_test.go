package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCharacter_HealthAndResourceStayClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		spec := CharacterSpec{
			Name:             "c",
			MaxHealth:        rapid.IntRange(1, 500).Draw(t, "maxHealth"),
			MaxResource:      rapid.IntRange(0, 200).Draw(t, "maxResource"),
			StartingResource: rapid.IntRange(-50, 300).Draw(t, "start"),
			ResourceType:     rapid.SampledFrom([]ResourceType{ResourceMana, ResourceRage, ResourceEnergy}).Draw(t, "rt"),
		}
		c := NewCharacter(spec)
		check := func(step string) {
			if c.Health() < 0 || c.Health() > c.MaxHealth() {
				t.Fatalf("%s: health %d outside [0,%d]", step, c.Health(), c.MaxHealth())
			}
			if c.Resource() < 0 || c.Resource() > c.MaxResource() {
				t.Fatalf("%s: resource %d outside [0,%d]", step, c.Resource(), c.MaxResource())
			}
		}
		check("new")
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			amount := rapid.IntRange(-300, 300).Draw(t, "amount")
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				c.Damage(amount)
				check("damage")
			case 1:
				c.Heal(amount)
				check("heal")
			case 2:
				c.AddResource(amount)
				check("resource")
			}
		}
	})
}

func TestCharacter_DeadIsAbsorbing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewCharacter(CharacterSpec{Name: "victim", MaxHealth: 50, MaxResource: 100, StartingResource: 40})
		other := NewCharacter(CharacterSpec{Name: "other", MaxHealth: 50})
		c.Damage(rapid.IntRange(50, 1000).Draw(t, "lethal"))
		if !c.IsDead() {
			t.Fatalf("still alive at %d", c.Health())
		}
		resource := c.Resource()
		n := rapid.IntRange(1, 20).Draw(t, "n")
		for i := 0; i < n; i++ {
			amount := rapid.IntRange(1, 200).Draw(t, "amount")
			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				c.Damage(amount)
			case 1:
				c.Heal(amount)
			case 2:
				c.AddThreat(other, float64(amount))
			case 3:
				c.AddResource(amount)
			case 4:
				c.ApplyEffect(effectTpl(EffectBleed, 1, 3), other)
			}
		}
		if c.Health() != 0 || c.Resource() != resource || c.Threat.Len() != 0 || c.Effects.Len() != 0 {
			t.Fatalf("dead character changed: hp=%d res=%d threat=%d effects=%d", c.Health(), c.Resource(), c.Threat.Len(), c.Effects.Len())
		}
		if c.State() != StateDead {
			t.Fatalf("state %s", c.State())
		}
	})
}

func TestCharacter_DamageReduction(t *testing.T) {
	c := NewCharacter(CharacterSpec{Name: "a", MaxHealth: 100})
	c.ApplyEffect(effectTpl(EffectDamageReduction, 0.5, 10), nil)

	lost := c.Damage(30)

	assert.Equal(t, 15, lost)
	assert.Equal(t, 85, c.Health())
}

func TestCharacter_FullReductionBlocksDamage(t *testing.T) {
	c := NewCharacter(CharacterSpec{Name: "a", MaxHealth: 100})
	c.ApplyEffect(effectTpl(EffectDamageReduction, 1.5, 10), nil)

	assert.Equal(t, 0, c.Damage(40))
	assert.Equal(t, 100, c.Health())
}

func TestCharacter_RageFromDamageTaken(t *testing.T) {
	c := NewCharacter(CharacterSpec{Name: "w", MaxHealth: 200, MaxResource: 100, ResourceType: ResourceRage})
	require.Equal(t, 0, c.Resource())

	c.Damage(20)

	assert.Equal(t, 20, c.Resource())
}

func TestCharacter_DiesOnce(t *testing.T) {
	s := newTestSim(t, 1)
	c := spawn(t, s, dummy("a", SideAlly, 10), 0)

	c.Damage(10)
	c.Damage(10)
	c.die()

	assert.True(t, c.IsDead())
	assert.Len(t, eventsOf(s, EventDied), 1)
	assert.Len(t, s.stats.deaths, 1)
}

func TestCharacter_HealReturnsAmountRestored(t *testing.T) {
	c := NewCharacter(CharacterSpec{Name: "a", MaxHealth: 100})
	c.Damage(30)

	assert.Equal(t, 30, c.Heal(50))
	assert.Equal(t, 0, c.Heal(5))
	assert.Equal(t, 0, c.Heal(-5))
}

func TestNewCharacter_ClampsStrength(t *testing.T) {
	hi := NewCharacter(CharacterSpec{AIStrength: 3})
	lo := NewCharacter(CharacterSpec{AIStrength: -1})

	assert.Equal(t, 1.0, hi.AIStrength)
	assert.Equal(t, 0.0, lo.AIStrength)
	assert.NotEqual(t, hi.ID, lo.ID)
	assert.NotEmpty(t, hi.Name)
}

func TestParseEnums(t *testing.T) {
	side, err := ParseSide("player")
	require.NoError(t, err)
	assert.Equal(t, SideAlly, side)
	_, err = ParseSide("neutral")
	assert.Error(t, err)

	role, err := ParseRole("Healer")
	require.NoError(t, err)
	assert.Equal(t, RoleHealer, role)

	rt, err := ParseResourceType("rage")
	require.NoError(t, err)
	assert.Equal(t, "rage", rt.String())
}
