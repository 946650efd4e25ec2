package combat

import (
	"aggrosim/internal/dist"
)

// noThreatWeight is what TankThreat gives an opponent nobody has touched yet;
// it is the top of the "behind" band.
const noThreatWeight = 5.0

// StrategyDistribution weighs the living opponents of c under one strategy.
// Closest holds only the closest opponent. All and Self carry no per-opponent
// preference and return an empty distribution.
func (e *DecisionEngine) StrategyDistribution(c *Character, st TargetingStrategy) *dist.Distribution[*Character] {
	out := dist.New[*Character]()
	opp := e.Roster.Opponents(c)
	switch st {
	case TargetClosest:
		if closest := e.Roster.ClosestOpponent(c, e.Rng); closest != nil {
			out.Set(closest, 1)
		}
	case TargetTankThreat:
		for _, o := range opp {
			out.Set(o, tankThreatWeight(c, o))
		}
	case TargetDamageThreat:
		for _, o := range opp {
			out.Set(o, damageThreatWeight(c, o))
		}
	case TargetHighestHealth:
		for _, o := range opp {
			out.Set(o, float64(o.health))
		}
	case TargetLowestHealth:
		for _, o := range opp {
			out.Set(o, 1/(float64(o.health)+1))
		}
	case TargetHighestPowerLevel:
		for _, o := range opp {
			out.Set(o, float64(o.PowerLevel))
		}
	case TargetLowestPowerLevel:
		for _, o := range opp {
			out.Set(o, 1/(float64(o.PowerLevel)+1))
		}
	}
	return out
}

// tankThreatWeight favours opponents c does not hold yet. Leading gives
// second/highest in [0,1]; trailing gives 1.5 (barely behind) to 5 (far behind).
func tankThreatWeight(c, o *Character) float64 {
	highest, second := o.Threat.Top2()
	if highest == 0 {
		return noThreatWeight
	}
	cur := o.Threat.Get(c)
	if cur == highest {
		return second / highest
	}
	return 1.5 + 3.5*(1-cur/highest)
}

// damageThreatWeight avoids opponents where c would pull aggro.
func damageThreatWeight(c, o *Character) float64 {
	highest, _ := o.Threat.Top2()
	cur := o.Threat.Get(c)
	if highest == 0 || cur >= highest {
		return 0
	}
	return (highest - cur) / highest
}

// TargetDistribution normalizes each declared strategy to [0,1] and combines
// them by their weights.
func (e *DecisionEngine) TargetDistribution(c *Character, ab *Ability) *dist.Distribution[*Character] {
	parts := make([]*dist.Distribution[*Character], 0, len(ab.Targeting))
	weights := make([]float64, 0, len(ab.Targeting))
	for _, tw := range ab.Targeting {
		parts = append(parts, dist.Normalize(e.StrategyDistribution(c, tw.Strategy), 0, 1))
		weights = append(weights, tw.Weight)
	}
	return dist.Combine(parts, weights)
}

// enemyTarget is the enemy-side rule: whoever holds aggro, else the closest
// opponent.
func (e *DecisionEngine) enemyTarget(c *Character) *Character {
	if h := c.HighestThreatHolder(); h != nil && !h.IsDead() && e.Roster.Contains(h) {
		return h
	}
	return e.Roster.ClosestOpponent(c, e.Rng)
}

func hasStrategy(ab *Ability, st TargetingStrategy) bool {
	for _, tw := range ab.Targeting {
		if tw.Strategy == st {
			return true
		}
	}
	return false
}
