package combat

type EffectSnapshot struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Icon      string  `json:"icon,omitempty"`
	Stacks    int     `json:"stacks"`
	Remaining float64 `json:"remaining"`
	Source    string  `json:"source,omitempty"`
}

// CharacterSnapshot is a read-only view for presentation layers.
type CharacterSnapshot struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Side         string           `json:"side"`
	Slot         int              `json:"slot"`
	State        string           `json:"state"`
	Health       int              `json:"health"`
	MaxHealth    int              `json:"max_health"`
	Resource     int              `json:"resource"`
	MaxResource  int              `json:"max_resource"`
	ResourceType string           `json:"resource_type"`
	CastProgress float64          `json:"cast_progress"`
	Effects      []EffectSnapshot `json:"effects,omitempty"`
	// Target is who this character currently means to hit: its aggro holder
	// for enemies, the pending or casting target otherwise.
	Target string `json:"target,omitempty"`
}

type Snapshot struct {
	T          float64             `json:"t"`
	Characters []CharacterSnapshot `json:"characters"`
}

func (c *Character) Snapshot() CharacterSnapshot {
	s := CharacterSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		Side:         c.Side.String(),
		Slot:         c.slot(),
		State:        c.State().String(),
		Health:       c.health,
		MaxHealth:    c.maxHealth,
		Resource:     c.resource,
		MaxResource:  c.maxResource,
		ResourceType: c.ResourceType.String(),
		Effects:      c.Effects.Snapshot(),
	}
	if d := c.casting; d != nil && d.Ability.Ability.CastTime > 0 {
		s.CastProgress = clamp((c.now()-c.castStart)/d.Ability.Ability.CastTime, 0, 1)
	}
	switch {
	case c.Side == SideEnemy:
		s.Target = nameOf(c.HighestThreatHolder())
	case c.casting != nil:
		s.Target = nameOf(c.casting.Target)
	case c.pending != nil:
		s.Target = nameOf(c.pending.Target)
	}
	return s
}
