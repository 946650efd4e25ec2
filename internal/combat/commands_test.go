package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aggrosim/internal/config"
)

func TestCommands_UnknownCharacter(t *testing.T) {
	s := newTestSim(t, 1)

	_, err := s.ApplyHeal("ghost", 10)
	assert.ErrorIs(t, err, ErrUnknownCharacter)
	_, err = s.ApplyStatusEffect("ghost", effectTpl(EffectStun, 0, 1), "")
	assert.ErrorIs(t, err, ErrUnknownCharacter)
	assert.ErrorIs(t, s.SpendResource("ghost", 1), ErrUnknownCharacter)
	assert.ErrorIs(t, s.PlayCard("ghost", "ghost", &Card{Name: "x"}), ErrUnknownCharacter)
}

func TestCommands_ApplyHeal(t *testing.T) {
	s := newTestSim(t, 1)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)
	c.Damage(30)

	healed, err := s.ApplyHeal(c.ID, 50)

	require.NoError(t, err)
	assert.Equal(t, 30, healed)
	assert.Equal(t, 100, c.Health())
}

func TestCommands_DeadCharactersAreLeftAlone(t *testing.T) {
	s := newTestSim(t, 1)
	c := spawn(t, s, dummy("a", SideAlly, 100), 0)
	c.Damage(100)

	healed, err := s.ApplyHeal(c.ID, 50)
	require.NoError(t, err)
	assert.Zero(t, healed)

	e, err := s.ApplyStatusEffect(c.ID, effectTpl(EffectBleed, 2, 3), "")
	require.NoError(t, err)
	assert.Nil(t, e)

	assert.NoError(t, s.SpendResource(c.ID, 500))
	assert.Equal(t, 0, c.Health())
}

func TestCommands_SpendResource(t *testing.T) {
	s := newTestSim(t, 1)
	spec := dummy("a", SideAlly, 100)
	spec.StartingResource = 40
	c := spawn(t, s, spec, 0)

	require.NoError(t, s.SpendResource(c.ID, 15))
	assert.Equal(t, 25, c.Resource())

	err := s.SpendResource(c.ID, 30)
	assert.ErrorIs(t, err, ErrInsufficientResource)
	assert.Equal(t, 25, c.Resource())

	require.NoError(t, s.SpendResource(c.ID, 0))
	assert.Equal(t, 25, c.Resource())
}

func TestCommands_ApplyStatusEffectWithSource(t *testing.T) {
	s := newTestSim(t, 1)
	src := spawn(t, s, dummy("tank", SideAlly, 100), 0)
	e := spawn(t, s, dummy("e", SideEnemy, 100), 0)

	eff, err := s.ApplyStatusEffect(e.ID, effectTpl(EffectTaunt, 0, 2), src.ID)

	require.NoError(t, err)
	require.NotNil(t, eff)
	assert.Same(t, src, eff.Source)
	assert.Same(t, src, e.HighestThreatHolder())

	_, err = s.ApplyStatusEffect(e.ID, effectTpl(EffectTaunt, 0, 2), "ghost")
	assert.ErrorIs(t, err, ErrUnknownCharacter)
}

func TestCommands_PlayCard(t *testing.T) {
	s := newTestSim(t, 1)
	spec := dummy("priest", SideAlly, 100)
	spec.StartingResource = 30
	priest := spawn(t, s, spec, 0)
	priest.Damage(50)
	shield := effectTpl(EffectDamageReduction, 0.25, 4)

	instant := &Card{Name: "bandage", ResourceCost: 10, Heal: 20, Effect: shield}
	require.NoError(t, s.PlayCard(priest.ID, priest.ID, instant))
	assert.Equal(t, 70, priest.Health())
	assert.Equal(t, 20, priest.Resource())
	assert.True(t, priest.Effects.Has(EffectDamageReduction))

	slow := &Card{Name: "prayer", ResourceCost: 5, CastTime: 0.5, Heal: 10}
	require.NoError(t, s.PlayCard(priest.ID, priest.ID, slow))
	assert.Equal(t, 70, priest.Health())
	runTicks(s, 12)
	assert.Equal(t, 80, priest.Health())
	assert.Equal(t, 10.0, s.Result().HealingByAbility["prayer"])

	err := s.PlayCard(priest.ID, priest.ID, &Card{Name: "miracle", ResourceCost: 99})
	assert.ErrorIs(t, err, ErrInsufficientResource)
}

func TestCommands_PlayCardMissesDeadTarget(t *testing.T) {
	s := newTestSim(t, 2)
	priest := spawn(t, s, dummy("priest", SideAlly, 100), 0)
	ally := spawn(t, s, dummy("ally", SideAlly, 100), 1)

	require.NoError(t, s.PlayCard(priest.ID, ally.ID, &Card{Name: "prayer", CastTime: 0.3, Heal: 10}))
	ally.Damage(100)
	runTicks(s, 10)

	assert.Equal(t, 1, s.stats.misses)
	assert.Len(t, eventsOf(s, EventMiss), 1)
}

func TestNewDeck(t *testing.T) {
	cat, err := NewCatalog(&config.EffectsConfig{Effects: []config.EffectDef{
		{ID: "shield", Kind: "damage_reduction", Value: 0.3, Duration: 5},
	}}, nil)
	require.NoError(t, err)

	deck, err := NewDeck(&config.CardsConfig{Cards: []config.CardDef{
		{ID: "bandage", Heal: 15, ResourceCost: 5},
		{ID: "bulwark", Name: "Bulwark", Effect: "shield"},
	}}, cat)
	require.NoError(t, err)
	require.Len(t, deck.Cards(), 2)
	card, ok := deck.Card("bulwark")
	require.True(t, ok)
	assert.Equal(t, "Bulwark", card.Name)
	assert.Equal(t, EffectDamageReduction, card.Effect.Kind)
	bandage, _ := deck.Card("bandage")
	assert.Equal(t, "bandage", bandage.Name)

	_, err = NewDeck(&config.CardsConfig{Cards: []config.CardDef{{ID: "a"}, {ID: "a"}}}, cat)
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = NewDeck(&config.CardsConfig{Cards: []config.CardDef{{ID: "a", Effect: "nope"}}}, cat)
	assert.ErrorIs(t, err, ErrUnknownID)

	empty, err := NewDeck(nil, cat)
	require.NoError(t, err)
	assert.Empty(t, empty.Cards())
}
