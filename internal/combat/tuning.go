package combat

import "aggrosim/internal/config"

// Tuning holds the timing and weighting constants shared by every character in
// a simulation.
type Tuning struct {
	DecisionInterval     float64
	GlobalCooldown       float64
	GlobalCooldownJitter float64
	// ReadinessHorizon is the e-folding time of the "not ready yet" penalty.
	ReadinessHorizon float64
	BlockedPenalty   float64
	// DoNothingScale multiplies the decision temperature for the pass/act draw.
	// Zero or negative disables the draw.
	DoNothingScale   float64
	DeathGrace       float64
	TauntBonus       float64
	SnapshotInterval float64
	Delta            float64
	Threat           ThreatPolicy
}

func DefaultTuning() Tuning {
	return Tuning{
		DecisionInterval:     1.0,
		GlobalCooldown:       0.8,
		GlobalCooldownJitter: 0.2,
		ReadinessHorizon:     1.0,
		BlockedPenalty:       0.5,
		DoNothingScale:       0.1,
		DeathGrace:           2.0,
		TauntBonus:           1.0,
		SnapshotInterval:     0.1,
		Delta:                0.05,
	}
}

// TuningFrom applies non-zero scenario overrides on top of the defaults.
func TuningFrom(def config.TuningDef, threat config.ThreatDef) Tuning {
	t := DefaultTuning()
	override := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	override(&t.DecisionInterval, def.DecisionInterval)
	override(&t.GlobalCooldown, def.GlobalCooldown)
	override(&t.GlobalCooldownJitter, def.GlobalCooldownJitter)
	override(&t.ReadinessHorizon, def.ReadinessHorizon)
	override(&t.BlockedPenalty, def.BlockedPenalty)
	override(&t.DoNothingScale, def.DoNothingScale)
	override(&t.DeathGrace, def.DeathGrace)
	override(&t.TauntBonus, def.TauntBonus)
	override(&t.SnapshotInterval, def.SnapshotInterval)
	override(&t.Delta, def.Delta)
	t.Threat = ThreatPolicy{
		DecayPerSecond:    threat.DecayPerSecond,
		RedirectThreshold: threat.RedirectThreshold,
	}
	return t
}
