package config

type CharactersConfig struct {
	Characters []CharacterDef `yaml:"characters"`
}

type CharacterDef struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Side             string   `yaml:"side"`
	Role             string   `yaml:"role"`
	PowerLevel       int      `yaml:"power_level"`
	AIStrength       *float64 `yaml:"ai_strength"`
	MaxHealth        int      `yaml:"max_health"`
	MaxResource      int      `yaml:"max_resource"`
	StartingResource *int     `yaml:"starting_resource"`
	ResourceRegen    int      `yaml:"resource_regen"`
	RegenInterval    float64  `yaml:"regen_interval"`
	ResourceType     string   `yaml:"resource_type"`
	Abilities        []string `yaml:"abilities"`
	Note             string   `yaml:"note"`
}
