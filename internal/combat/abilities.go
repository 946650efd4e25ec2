package combat

import (
	"fmt"
	"math"
	"strings"

	"aggrosim/internal/config"
)

type TargetingStrategy int

const (
	TargetClosest TargetingStrategy = iota
	TargetTankThreat
	TargetDamageThreat
	TargetHighestHealth
	TargetLowestHealth
	TargetHighestPowerLevel
	TargetLowestPowerLevel
	TargetAll
	TargetSelf
)

var strategyNames = [...]string{
	TargetClosest:           "closest",
	TargetTankThreat:        "tank_threat",
	TargetDamageThreat:      "damage_threat",
	TargetHighestHealth:     "highest_health",
	TargetLowestHealth:      "lowest_health",
	TargetHighestPowerLevel: "highest_power_level",
	TargetLowestPowerLevel:  "lowest_power_level",
	TargetAll:               "all",
	TargetSelf:              "self",
}

func (s TargetingStrategy) String() string {
	if s >= 0 && int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("TargetingStrategy(%d)", int(s))
}

func ParseTargetingStrategy(s string) (TargetingStrategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range strategyNames {
		if name == s {
			return TargetingStrategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown targeting strategy %q", s)
}

type ConditionType int

const (
	CondNumEnemies ConditionType = iota
	CondNumEnemiesWithThreat
	CondNumEnemiesWithoutThreat
	CondHealth
	CondResource
)

func ParseConditionType(s string) (ConditionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "num_enemies":
		return CondNumEnemies, nil
	case "num_enemies_with_threat":
		return CondNumEnemiesWithThreat, nil
	case "num_enemies_without_threat":
		return CondNumEnemiesWithoutThreat, nil
	case "health":
		return CondHealth, nil
	case "resource":
		return CondResource, nil
	}
	return 0, fmt.Errorf("unknown condition type %q", s)
}

type Operator int

const (
	OpGreater Operator = iota
	OpLess
	OpEqual
	OpNotEqual
)

func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gt", ">":
		return OpGreater, nil
	case "lt", "<":
		return OpLess, nil
	case "eq", "==":
		return OpEqual, nil
	case "ne", "!=":
		return OpNotEqual, nil
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// Holds compares with exact float equality for == and !=; thresholds are
// authored to hit exact counts and fractions.
func (op Operator) Holds(value, threshold float64) bool {
	switch op {
	case OpGreater:
		return value > threshold
	case OpLess:
		return value < threshold
	case OpEqual:
		return value == threshold
	case OpNotEqual:
		return value != threshold
	}
	return false
}

type DeliveryKind int

const (
	DeliverInstant DeliveryKind = iota
	DeliverMelee
	DeliverProjectile
	DeliverVolley
)

func ParseDeliveryKind(s string) (DeliveryKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instant", "":
		return DeliverInstant, nil
	case "melee":
		return DeliverMelee, nil
	case "projectile":
		return DeliverProjectile, nil
	case "volley":
		return DeliverVolley, nil
	}
	return 0, fmt.Errorf("unknown delivery kind %q", s)
}

type Condition struct {
	Type      ConditionType
	Op        Operator
	Threshold float64
	LowDelta  float64
	HighDelta float64
}

type TargetWeight struct {
	Strategy TargetingStrategy
	Weight   float64
}

type Delivery struct {
	Kind        DeliveryKind
	ImpactDelay float64
	TravelTime  float64
	Stagger     float64
}

// Ability is immutable once built; per-character readiness lives in
// AbilityState.
type Ability struct {
	ID               string
	Name             string
	Damage           int
	Heal             int
	Cooldown         float64
	CastTime         float64
	ResourceCost     int
	ThreatMultiplier float64
	Taunt            bool
	LowPriority      float64
	HighPriority     float64
	Conditions       []Condition
	Targeting        []TargetWeight
	Effect           *EffectTemplate
	Delivery         Delivery
}

func (a *Ability) String() string { return a.Name }

type AbilityState struct {
	Ability   *Ability
	NextReady float64
}

func (s *AbilityState) String() string { return s.Ability.Name }

func (s *AbilityState) Ready(now float64) bool {
	return now >= s.NextReady
}

func (s *AbilityState) Remaining(now float64) float64 {
	return max(0, s.NextReady-now)
}

func (s *AbilityState) Trigger(now float64) {
	s.NextReady = now + s.Ability.Cooldown
}

// Catalog resolves ability and effect ids from the data files.
type Catalog struct {
	effects   map[string]*EffectTemplate
	abilities map[string]*Ability
}

func NewCatalog(ec *config.EffectsConfig, ac *config.AbilitiesConfig) (*Catalog, error) {
	cat := &Catalog{
		effects:   map[string]*EffectTemplate{},
		abilities: map[string]*Ability{},
	}
	if ec != nil {
		for _, e := range ec.Effects {
			tpl, err := effectFrom(e)
			if err != nil {
				return nil, fmt.Errorf("effect %q: %w", e.ID, err)
			}
			if _, dup := cat.effects[e.ID]; dup {
				return nil, fmt.Errorf("effect %q: %w", e.ID, ErrDuplicateID)
			}
			cat.effects[e.ID] = tpl
		}
	}
	if ac != nil {
		for _, a := range ac.Abilities {
			ab, err := cat.abilityFrom(a)
			if err != nil {
				return nil, fmt.Errorf("ability %q: %w", a.ID, err)
			}
			if _, dup := cat.abilities[a.ID]; dup {
				return nil, fmt.Errorf("ability %q: %w", a.ID, ErrDuplicateID)
			}
			cat.abilities[a.ID] = ab
		}
	}
	return cat, nil
}

func effectFrom(d config.EffectDef) (*EffectTemplate, error) {
	kind, err := ParseEffectKind(d.Kind)
	if err != nil {
		return nil, err
	}
	if d.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %v", d.Duration)
	}
	name := d.Name
	if name == "" {
		name = d.ID
	}
	interval := d.TickInterval
	if interval == 0 && kind.periodic() {
		interval = 1
	}
	return &EffectTemplate{
		ID:           d.ID,
		Name:         name,
		Kind:         kind,
		Icon:         d.Icon,
		Value:        d.Value,
		Duration:     d.Duration,
		TickInterval: interval,
		Stackable:    d.Stackable,
		MaxStacks:    max(d.MaxStacks, 1),
	}, nil
}

func (cat *Catalog) abilityFrom(d config.AbilityDef) (*Ability, error) {
	ab := &Ability{
		ID:               d.ID,
		Name:             d.Name,
		Damage:           d.Damage,
		Heal:             d.Heal,
		Cooldown:         d.Cooldown,
		CastTime:         d.CastTime,
		ResourceCost:     d.ResourceCost,
		ThreatMultiplier: 1,
		Taunt:            d.Taunt,
		LowPriority:      d.Priority.Low,
		HighPriority:     d.Priority.High,
	}
	if ab.Name == "" {
		ab.Name = d.ID
	}
	if d.ThreatMultiplier != nil {
		ab.ThreatMultiplier = *d.ThreatMultiplier
	}
	for _, c := range d.Conditions {
		ct, err := ParseConditionType(c.Type)
		if err != nil {
			return nil, err
		}
		op, err := ParseOperator(c.Op)
		if err != nil {
			return nil, err
		}
		ab.Conditions = append(ab.Conditions, Condition{Type: ct, Op: op, Threshold: c.Value, LowDelta: c.Low, HighDelta: c.High})
	}
	for _, tw := range d.Targeting {
		st, err := ParseTargetingStrategy(tw.Strategy)
		if err != nil {
			return nil, err
		}
		ab.Targeting = append(ab.Targeting, TargetWeight{Strategy: st, Weight: tw.Weight})
	}
	if len(ab.Targeting) == 0 {
		ab.Targeting = []TargetWeight{{Strategy: TargetClosest, Weight: 1}}
	}
	if d.Effect != "" {
		tpl, ok := cat.effects[d.Effect]
		if !ok {
			return nil, fmt.Errorf("effect %q: %w", d.Effect, ErrUnknownID)
		}
		ab.Effect = tpl
	}
	kind, err := ParseDeliveryKind(d.Delivery.Kind)
	if err != nil {
		return nil, err
	}
	ab.Delivery = Delivery{
		Kind:        kind,
		ImpactDelay: d.Delivery.ImpactDelay,
		TravelTime:  d.Delivery.TravelTime,
		Stagger:     d.Delivery.Stagger,
	}
	return ab, nil
}

func (cat *Catalog) Effect(id string) (*EffectTemplate, bool) {
	e, ok := cat.effects[id]
	return e, ok
}

func (cat *Catalog) Ability(id string) (*Ability, bool) {
	a, ok := cat.abilities[id]
	return a, ok
}

// Instantiate resolves ability ids into a fresh list for one character.
func (cat *Catalog) Instantiate(ids []string) ([]*Ability, error) {
	out := make([]*Ability, 0, len(ids))
	for _, id := range ids {
		ab, ok := cat.abilities[id]
		if !ok {
			return nil, fmt.Errorf("ability %q: %w", id, ErrUnknownID)
		}
		out = append(out, ab)
	}
	return out, nil
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func ceilDiv(n, d int) int {
	return int(math.Ceil(float64(n) / float64(d)))
}
