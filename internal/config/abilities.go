package config

type AbilitiesConfig struct {
	Abilities []AbilityDef `yaml:"abilities"`
}

type AbilityDef struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Damage           int            `yaml:"damage"`
	Heal             int            `yaml:"heal"`
	Cooldown         float64        `yaml:"cooldown"`
	CastTime         float64        `yaml:"cast_time"`
	ResourceCost     int            `yaml:"resource_cost"`
	ThreatMultiplier *float64       `yaml:"threat_multiplier"`
	Taunt            bool           `yaml:"taunt"`
	Priority         PriorityDef    `yaml:"priority"`
	Conditions       []ConditionDef `yaml:"conditions"`
	Targeting        []TargetingDef `yaml:"targeting"`
	Effect           string         `yaml:"effect"`
	Delivery         DeliveryDef    `yaml:"delivery"`
	Note             string         `yaml:"note"`
}

// PriorityDef is interpolated by the owner's AI strength: 0 -> Low, 1 -> High.
type PriorityDef struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// ConditionDef adds lerp(Low, High, strength) when "<type> <op> <value>" holds.
// Types: num_enemies, num_enemies_with_threat, num_enemies_without_threat,
// health, resource. Ops: gt, lt, eq, ne.
type ConditionDef struct {
	Type  string  `yaml:"type"`
	Op    string  `yaml:"op"`
	Value float64 `yaml:"value"`
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
}

type TargetingDef struct {
	Strategy string  `yaml:"strategy"`
	Weight   float64 `yaml:"weight"`
}

// DeliveryDef kinds: instant, melee, projectile, volley.
type DeliveryDef struct {
	Kind        string  `yaml:"kind"`
	ImpactDelay float64 `yaml:"impact_delay"`
	TravelTime  float64 `yaml:"travel_time"`
	Stagger     float64 `yaml:"stagger"`
}
