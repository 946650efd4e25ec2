package combat

import (
	"math"

	"aggrosim/internal/dist"
)

// RawPriority is the AI-strength interpolated base priority plus every
// satisfied condition bonus, clamped to [0,1].
func (e *DecisionEngine) RawPriority(c *Character, ab *Ability) float64 {
	s := c.AIStrength
	p := lerp(ab.LowPriority, ab.HighPriority, s)
	for _, cond := range ab.Conditions {
		if cond.Op.Holds(e.conditionValue(c, cond.Type), cond.Threshold) {
			p += lerp(cond.LowDelta, cond.HighDelta, s)
		}
	}
	return clamp(p, 0, 1)
}

func (e *DecisionEngine) conditionValue(c *Character, ct ConditionType) float64 {
	switch ct {
	case CondNumEnemies:
		return float64(len(e.Roster.Opponents(c)))
	case CondNumEnemiesWithThreat, CondNumEnemiesWithoutThreat:
		with := 0
		opp := e.Roster.Opponents(c)
		for _, o := range opp {
			if o.HighestThreatHolder() == c {
				with++
			}
		}
		if ct == CondNumEnemiesWithThreat {
			return float64(with)
		}
		return float64(len(opp) - with)
	case CondHealth:
		return c.HealthFraction()
	case CondResource:
		return c.ResourceFraction()
	}
	return 0
}

// timeUntilUsable is the larger of the remaining cooldown and the time the
// owner's regeneration needs to cover the cost. Unreachable costs give +Inf.
func timeUntilUsable(c *Character, s *AbilityState, now float64) float64 {
	wait := s.Remaining(now)
	deficit := s.Ability.ResourceCost - c.resource
	if deficit <= 0 {
		return wait
	}
	if c.ResourceRegen <= 0 || s.Ability.ResourceCost > c.maxResource {
		return math.Inf(1)
	}
	refill := float64(ceilDiv(deficit, c.ResourceRegen)) * c.RegenInterval
	return max(wait, refill)
}

func resourceBlocked(c *Character, s *AbilityState) bool {
	return s.Ability.ResourceCost > c.resource
}

// AbilityDistribution scores every ability of c. Abilities on cooldown or
// short of resource stay in with a readiness penalty, and resource-costing
// abilities are discounted while a higher-priority one waits on resource.
func (e *DecisionEngine) AbilityDistribution(c *Character, now float64) *dist.Distribution[*AbilityState] {
	out := dist.New[*AbilityState]()
	raw := make([]float64, len(c.Abilities))
	blockedTop := math.Inf(-1)
	for i, s := range c.Abilities {
		raw[i] = e.RawPriority(c, s.Ability)
		if resourceBlocked(c, s) {
			blockedTop = max(blockedTop, raw[i])
		}
	}
	for i, s := range c.Abilities {
		p := raw[i] * readiness(timeUntilUsable(c, s, now), e.Tuning.ReadinessHorizon)
		if s.Ability.ResourceCost > 0 && raw[i] < blockedTop {
			p *= e.Tuning.BlockedPenalty
		}
		out.Set(s, p)
	}
	return out
}

func readiness(wait, horizon float64) float64 {
	if wait <= 0 {
		return 1
	}
	if horizon <= 0 {
		return 0
	}
	return math.Exp(-wait / horizon)
}
