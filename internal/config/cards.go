package config

type CardsConfig struct {
	Cards []CardDef `yaml:"cards"`
}

type CardDef struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description"`
	ResourceCost int     `yaml:"resource_cost"`
	CastTime     float64 `yaml:"cast_time"`
	Heal         int     `yaml:"heal"`
	Effect       string  `yaml:"effect"`
}
