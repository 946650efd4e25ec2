package config

type ScenarioConfig struct {
	ID          string      `yaml:"id"`
	Note        string      `yaml:"note"`
	Slots       int         `yaml:"slots"`
	MaxDuration float64     `yaml:"max_duration"`
	Allies      []Placement `yaml:"allies"`
	Enemies     []Placement `yaml:"enemies"`
	Tuning      TuningDef   `yaml:"tuning"`
	Threat      ThreatDef   `yaml:"threat"`
	Script      []ScriptOp  `yaml:"script"`
}

// ScriptOp plays a card at time T. Caster and Target name character
// templates; the first placed instance of each is used.
type ScriptOp struct {
	T      float64 `yaml:"t"`
	Card   string  `yaml:"card"`
	Caster string  `yaml:"caster"`
	Target string  `yaml:"target"`
}

// Placement puts a character template into a lane. Without a slot the side is
// filled centred, in listing order.
type Placement struct {
	Character string `yaml:"character"`
	Slot      *int   `yaml:"slot"`
}

// TuningDef overrides simulation constants; zero keeps the default.
type TuningDef struct {
	DecisionInterval     float64 `yaml:"decision_interval"`
	GlobalCooldown       float64 `yaml:"global_cooldown"`
	GlobalCooldownJitter float64 `yaml:"global_cooldown_jitter"`
	ReadinessHorizon     float64 `yaml:"readiness_horizon"`
	BlockedPenalty       float64 `yaml:"blocked_penalty"`
	DoNothingScale       float64 `yaml:"do_nothing_scale"`
	DeathGrace           float64 `yaml:"death_grace"`
	TauntBonus           float64 `yaml:"taunt_bonus"`
	SnapshotInterval     float64 `yaml:"snapshot_interval"`
	Delta                float64 `yaml:"delta"`
}

type ThreatDef struct {
	DecayPerSecond    float64 `yaml:"decay_per_second"`
	RedirectThreshold float64 `yaml:"redirect_threshold"`
}
