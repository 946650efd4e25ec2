package combat

import (
	"fmt"

	"go.uber.org/zap"

	"aggrosim/internal/config"
)

// Card is a player-played action: it costs the caster resource, optionally
// takes a cast time, then heals and/or applies an effect to the target.
type Card struct {
	ID           string
	Name         string
	Description  string
	ResourceCost int
	CastTime     float64
	Heal         int
	Effect       *EffectTemplate
}

// Deck holds the cards available to a scenario, in listing order.
type Deck struct {
	cards []*Card
	byID  map[string]*Card
}

func NewDeck(cc *config.CardsConfig, cat *Catalog) (*Deck, error) {
	d := &Deck{byID: map[string]*Card{}}
	if cc == nil {
		return d, nil
	}
	for _, def := range cc.Cards {
		card := &Card{
			ID:           def.ID,
			Name:         def.Name,
			Description:  def.Description,
			ResourceCost: def.ResourceCost,
			CastTime:     def.CastTime,
			Heal:         def.Heal,
		}
		if card.Name == "" {
			card.Name = def.ID
		}
		if def.Effect != "" {
			tpl, ok := cat.Effect(def.Effect)
			if !ok {
				return nil, fmt.Errorf("card %q effect %q: %w", def.ID, def.Effect, ErrUnknownID)
			}
			card.Effect = tpl
		}
		if _, dup := d.byID[def.ID]; dup {
			return nil, fmt.Errorf("card %q: %w", def.ID, ErrDuplicateID)
		}
		d.byID[def.ID] = card
		d.cards = append(d.cards, card)
	}
	return d, nil
}

func (d *Deck) Card(id string) (*Card, bool) {
	c, ok := d.byID[id]
	return c, ok
}

func (d *Deck) Cards() []*Card { return append([]*Card(nil), d.cards...) }

// ApplyHeal heals the target and returns the health restored.
func (s *Simulation) ApplyHeal(targetID string, amount int) (int, error) {
	t, err := s.Lookup(targetID)
	if err != nil {
		return 0, fmt.Errorf("apply heal: %w", err)
	}
	return t.Heal(amount), nil
}

// ApplyStatusEffect applies tpl to the target. sourceID may be empty for an
// unattributed effect. A dead target yields a nil effect and no error.
func (s *Simulation) ApplyStatusEffect(targetID string, tpl *EffectTemplate, sourceID string) (*Effect, error) {
	t, err := s.Lookup(targetID)
	if err != nil {
		return nil, fmt.Errorf("apply status effect: %w", err)
	}
	var src *Character
	if sourceID != "" {
		if src, err = s.Lookup(sourceID); err != nil {
			return nil, fmt.Errorf("apply status effect: %w", err)
		}
	}
	return t.ApplyEffect(tpl, src), nil
}

// SpendResource takes amount from the character's pool. Dead characters are
// left alone.
func (s *Simulation) SpendResource(characterID string, amount int) error {
	c, err := s.Lookup(characterID)
	if err != nil {
		return fmt.Errorf("spend resource: %w", err)
	}
	if c.IsDead() || amount <= 0 {
		return nil
	}
	if c.resource < amount {
		return fmt.Errorf("spend resource: %s has %d, needs %d: %w", c.Name, c.resource, amount, ErrInsufficientResource)
	}
	c.AddResource(-amount)
	return nil
}

// PlayCard pays for card from the caster and lands it on the target after the
// card's cast time.
func (s *Simulation) PlayCard(casterID, targetID string, card *Card) error {
	caster, err := s.Lookup(casterID)
	if err != nil {
		return fmt.Errorf("play card: %w", err)
	}
	target, err := s.Lookup(targetID)
	if err != nil {
		return fmt.Errorf("play card: %w", err)
	}
	if caster.IsDead() {
		return nil
	}
	if err := s.SpendResource(casterID, card.ResourceCost); err != nil {
		return fmt.Errorf("play card %s: %w", card.Name, err)
	}
	s.Log.Debug("card played", zap.String("card", card.Name), zap.String("caster", caster.Name), zap.String("target", target.Name))
	s.emitEvent(Event{T: s.Env.Time, Kind: EventCastStarted, Source: caster.Name, Target: target.Name, Slot: target.slot(), Ability: card.Name, Amount: card.CastTime})
	land := func() {
		if !s.alive(target) {
			s.stats.misses++
			s.emitEvent(Event{T: s.Env.Time, Kind: EventMiss, Source: caster.Name, Target: target.Name, Ability: card.Name, Text: "Miss", Color: ColorGray, Slot: -1})
			return
		}
		if card.Heal > 0 {
			target.restore(card.Heal, caster, card.Name)
		}
		if card.Effect != nil {
			target.ApplyEffect(card.Effect, caster)
		}
	}
	if card.CastTime <= 0 {
		land()
		return nil
	}
	s.Timeline.At(s.Env.Time+card.CastTime, land)
	return nil
}
