package config

type EffectsConfig struct {
	Effects []EffectDef `yaml:"effects"`
}

// EffectDef is a status-effect template. Kind is one of stun, taunt, bleed,
// damage_reduction, resource_regen, healing_over_time.
type EffectDef struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Kind         string  `yaml:"kind"`
	Icon         string  `yaml:"icon"`
	Value        float64 `yaml:"value"`
	Duration     float64 `yaml:"duration"`
	TickInterval float64 `yaml:"tick_interval"`
	Stackable    bool    `yaml:"stackable"`
	MaxStacks    int     `yaml:"max_stacks"`
	Note         string  `yaml:"note"`
}
