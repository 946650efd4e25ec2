package combat

import (
	"fmt"

	"go.uber.org/zap"

	"aggrosim/internal/config"
)

const defaultAIStrength = 0.5

// BuildCharacter turns a character template into a fresh combatant.
func BuildCharacter(def config.CharacterDef, cat *Catalog) (*Character, error) {
	side, err := ParseSide(def.Side)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", def.ID, err)
	}
	role, err := ParseRole(def.Role)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", def.ID, err)
	}
	rt, err := ParseResourceType(def.ResourceType)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", def.ID, err)
	}
	abilities, err := cat.Instantiate(def.Abilities)
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", def.ID, err)
	}
	if def.MaxHealth <= 0 {
		return nil, fmt.Errorf("character %q: max_health must be positive", def.ID)
	}
	spec := CharacterSpec{
		Name:          def.Name,
		Side:          side,
		Role:          role,
		PowerLevel:    def.PowerLevel,
		AIStrength:    defaultAIStrength,
		MaxHealth:     def.MaxHealth,
		MaxResource:   def.MaxResource,
		ResourceRegen: def.ResourceRegen,
		RegenInterval: def.RegenInterval,
		ResourceType:  rt,
		Abilities:     abilities,
	}
	if spec.Name == "" {
		spec.Name = def.ID
	}
	if def.AIStrength != nil {
		spec.AIStrength = *def.AIStrength
	}
	if spec.RegenInterval <= 0 {
		spec.RegenInterval = 1
	}
	// rage starts empty, everything else starts full unless stated
	spec.StartingResource = def.MaxResource
	if rt == ResourceRage {
		spec.StartingResource = 0
	}
	if def.StartingResource != nil {
		spec.StartingResource = *def.StartingResource
	}
	return NewCharacter(spec), nil
}

// Setup is everything a scenario run needs, built from one data bundle.
type Setup struct {
	Sim      *Simulation
	Catalog  *Catalog
	Deck     *Deck
	Duration float64
	// byTemplate maps a character template id to its first placed instance.
	byTemplate map[string]*Character
}

const defaultMaxDuration = 180.0

// NewSetup builds the catalog and deck, spawns the scenario roster and queues
// the scripted card plays.
func NewSetup(b *config.Bundle, opts Options) (*Setup, error) {
	if b == nil || b.Scenario == nil {
		return nil, fmt.Errorf("setup: no scenario")
	}
	sc := b.Scenario
	cat, err := NewCatalog(b.Effects, b.Abilities)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	deck, err := NewDeck(b.Cards, cat)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	templates := map[string]config.CharacterDef{}
	if b.Characters != nil {
		for _, def := range b.Characters.Characters {
			templates[def.ID] = def
		}
	}
	if opts.Slots <= 0 {
		opts.Slots = max(sc.Slots, len(sc.Allies), len(sc.Enemies), 1)
	}
	opts.Tuning = TuningFrom(sc.Tuning, sc.Threat)
	sim := NewSimulation(opts)
	sim.meta.Scenario = sc.ID
	if sc.Note != "" {
		sim.meta.Notes = append(sim.meta.Notes, sc.Note)
	}

	st := &Setup{Sim: sim, Catalog: cat, Deck: deck, Duration: sc.MaxDuration, byTemplate: map[string]*Character{}}
	if st.Duration <= 0 {
		st.Duration = defaultMaxDuration
	}
	placed := map[string]int{}
	place := func(p config.Placement, side Side) error {
		def, ok := templates[p.Character]
		if !ok {
			return fmt.Errorf("setup: character %q: %w", p.Character, ErrUnknownID)
		}
		c, err := BuildCharacter(def, cat)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		// placement decides the side, whatever the template says
		c.Side = side
		if n := placed[def.ID]; n > 0 {
			c.Name = fmt.Sprintf("%s %d", c.Name, n+1)
		}
		placed[def.ID]++
		slot := -1
		if p.Slot != nil {
			slot = *p.Slot
		}
		if err := sim.Spawn(c, slot); err != nil {
			return fmt.Errorf("setup %s: %w", def.ID, err)
		}
		if _, seen := st.byTemplate[def.ID]; !seen {
			st.byTemplate[def.ID] = c
		}
		return nil
	}
	for _, p := range sc.Allies {
		if err := place(p, SideAlly); err != nil {
			return nil, err
		}
	}
	for _, p := range sc.Enemies {
		if err := place(p, SideEnemy); err != nil {
			return nil, err
		}
	}
	for _, op := range sc.Script {
		if err := st.schedule(op); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (st *Setup) schedule(op config.ScriptOp) error {
	card, ok := st.Deck.Card(op.Card)
	if !ok {
		return fmt.Errorf("setup: script card %q: %w", op.Card, ErrUnknownID)
	}
	caster, ok := st.byTemplate[op.Caster]
	if !ok {
		return fmt.Errorf("setup: script caster %q: %w", op.Caster, ErrUnknownID)
	}
	target, ok := st.byTemplate[op.Target]
	if !ok {
		return fmt.Errorf("setup: script target %q: %w", op.Target, ErrUnknownID)
	}
	sim := st.Sim
	sim.Timeline.At(op.T, func() {
		if err := sim.PlayCard(caster.ID, target.ID, card); err != nil {
			sim.Log.Warn("scripted card failed", zap.String("card", card.Name), zap.Error(err))
			sim.label(sim.Env.Time, caster, err.Error(), ColorGray)
		}
	})
	return nil
}

// Character returns the first placed instance of a template.
func (st *Setup) Character(templateID string) (*Character, bool) {
	c, ok := st.byTemplate[templateID]
	return c, ok
}

// Run plays the scenario to completion.
func (st *Setup) Run() Result {
	return st.Sim.Run(st.Duration)
}
