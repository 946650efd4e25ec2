package combat

import (
	"context"
	"math"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"aggrosim/internal/util"
)

type CombatState int

const (
	StateIdle CombatState = iota
	StateMoving
	StateCasting
	StateDead
)

var stateNames = [...]string{
	StateIdle:    "idle",
	StateMoving:  "moving",
	StateCasting: "casting",
	StateDead:    "dead",
}

func (s CombatState) String() string { return stateNames[s] }

func parseState(s string) CombatState {
	for i, name := range stateNames {
		if name == s {
			return CombatState(i)
		}
	}
	return StateIdle
}

const (
	eventCast      = "cast"
	eventFinish    = "finish"
	eventInterrupt = "interrupt"
	eventMove      = "move"
	eventSettle    = "settle"
	eventResume    = "resume"
	eventDie       = "die"
)

func newCombatMachine(c *Character) *fsm.FSM {
	idle, moving, casting, dead := StateIdle.String(), StateMoving.String(), StateCasting.String(), StateDead.String()
	return fsm.NewFSM(
		idle,
		fsm.Events{
			{Name: eventCast, Src: []string{idle}, Dst: casting},
			{Name: eventFinish, Src: []string{casting}, Dst: idle},
			{Name: eventInterrupt, Src: []string{casting}, Dst: idle},
			{Name: eventMove, Src: []string{idle, casting}, Dst: moving},
			{Name: eventSettle, Src: []string{moving}, Dst: idle},
			{Name: eventResume, Src: []string{moving}, Dst: casting},
			{Name: eventDie, Src: []string{idle, casting, moving}, Dst: dead},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.log.Debug("state", zap.String("from", e.Src), zap.String("to", e.Dst), zap.String("event", e.Event))
				c.emit(Event{T: c.now(), Kind: EventStateChanged, Target: c.Name, Slot: c.slot(), Text: e.Src + "->" + e.Dst})
			},
		},
	)
}

func (c *Character) State() CombatState { return parseState(c.machine.Current()) }

// fire reports whether the transition happened.
func (c *Character) fire(event string) bool {
	return c.machine.Event(context.Background(), event) == nil
}

// Pending is the held decision waiting for its attack window, if any.
func (c *Character) Pending() *Decision { return c.pending }

// Casting is the decision being cast, if any.
func (c *Character) Casting() *Decision { return c.casting }

// GlobalCooldownUntil is the earliest time the next attack may start.
func (c *Character) GlobalCooldownUntil() float64 { return c.gcdUntil }

// BeginMove suspends decisions and any cast in progress. EndMove resumes the
// cast with its elapsed time unchanged.
func (c *Character) BeginMove() bool {
	prior := c.State()
	if !c.fire(eventMove) {
		return false
	}
	c.priorState = prior
	c.moveStart = c.now()
	return true
}

func (c *Character) EndMove() bool {
	if c.State() != StateMoving {
		return false
	}
	if c.priorState == StateCasting && c.casting != nil {
		if !c.fire(eventResume) {
			return false
		}
		c.castStart += c.now() - c.moveStart
		return true
	}
	return c.fire(eventSettle)
}

func (c *Character) tick(now, dt float64) {
	if c.IsDead() {
		return
	}
	c.Effects.Advance(dt)
	if c.IsDead() {
		return
	}
	if c.RegenInterval > 0 && c.ResourceRegen != 0 && now-c.lastRegen >= c.RegenInterval {
		c.AddResource(c.ResourceRegen)
		c.lastRegen = now
	}
	c.Threat.Prune(c.sim.alive)
	c.Threat.Decay(dt)

	if c.Effects.Has(EffectStun) {
		c.interruptCast("stunned")
		return
	}
	switch c.State() {
	case StateCasting:
		c.updateCast(now)
	case StateIdle:
		if now-c.lastDecision > c.sim.Tuning.DecisionInterval {
			c.decide(now)
		}
		c.tryAttack(now)
	}
}

func (c *Character) decide(now float64) {
	c.lastDecision = now
	policy := c.Policy
	if policy == nil {
		policy = c.sim.engine
	}
	d, err := policy.Decide(c, now)
	if err != nil {
		c.log.Error("decision failed", zap.Error(err))
		c.pending = nil
		return
	}
	if d.IsPass() {
		c.pending = nil
		c.sim.stats.passes++
		c.emit(Event{T: now, Kind: EventPassed, Source: c.Name, Slot: c.slot()})
		return
	}
	c.pending = &d
	c.sim.stats.decisions++
	ev := Event{T: now, Kind: EventDecisionMade, Source: c.Name, Ability: d.Ability.Ability.Name, Slot: c.slot()}
	if d.Target != nil {
		ev.Target = d.Target.Name
		ev.Slot = d.Target.slot()
	}
	c.emit(ev)
}

func (c *Character) tryAttack(now float64) {
	d := c.pending
	if d == nil || now < c.gcdUntil {
		return
	}
	ab := d.Ability.Ability
	if !d.Ability.Ready(now) || c.resource < ab.ResourceCost {
		return
	}
	if !c.targetValid(*d) {
		c.pending = nil
		return
	}
	if ab.CastTime > 0 {
		c.casting = d
		c.pending = nil
		c.castStart = now
		c.fire(eventCast)
		c.emit(Event{T: now, Kind: EventCastStarted, Source: c.Name, Target: nameOf(d.Target), Slot: c.slot(), Ability: ab.Name, Amount: ab.CastTime})
		return
	}
	c.resolve(now, *d)
}

func (c *Character) updateCast(now float64) {
	d := c.casting
	if d == nil {
		c.fire(eventInterrupt)
		return
	}
	if !c.targetValid(*d) {
		c.interruptCast("target lost")
		return
	}
	if now-c.castStart >= d.Ability.Ability.CastTime {
		c.casting = nil
		c.resolve(now, *d)
		c.fire(eventFinish)
	}
}

func (c *Character) interruptCast(reason string) {
	if c.casting == nil {
		return
	}
	d := c.casting
	c.casting = nil
	c.castStart = math.Inf(-1)
	c.fire(eventInterrupt)
	c.log.Debug("cast interrupted", zap.String("ability", d.Ability.Ability.Name), zap.String("reason", reason))
	c.emit(Event{T: c.now(), Kind: EventCastInterrupted, Source: c.Name, Target: nameOf(d.Target), Slot: c.slot(), Ability: d.Ability.Ability.Name, Text: reason})
}

// targetValid: area decisions need any living opponent, single-target ones a
// living target that is still on the field.
func (c *Character) targetValid(d Decision) bool {
	if d.Area {
		return c.sim != nil && len(c.sim.Roster.Opponents(c)) > 0
	}
	t := d.Target
	if t == nil || t.IsDead() {
		return false
	}
	return t == c || c.sim == nil || c.sim.Roster.Contains(t)
}

// resolve spends the cost, starts the cooldowns, hands the attack to its
// delivery and picks the next action straight away.
func (c *Character) resolve(now float64, d Decision) {
	ab := d.Ability.Ability
	c.pending = nil
	if !c.targetValid(d) {
		c.emit(Event{T: now, Kind: EventMiss, Source: c.Name, Target: nameOf(d.Target), Slot: d.Target.slot(), Ability: ab.Name, Text: "Miss", Color: ColorGray})
		return
	}
	c.AddResource(-ab.ResourceCost)
	d.Ability.Trigger(now)
	tun := c.sim.Tuning
	c.gcdUntil = now + tun.GlobalCooldown + util.Range(c.sim.Env.Rng, 0, tun.GlobalCooldownJitter)
	c.lastAttack = now
	c.emit(Event{T: now, Kind: EventAttackFired, Source: c.Name, Target: nameOf(d.Target), Slot: d.Target.slot(), Ability: ab.Name})
	c.sim.deliver(c, d)
	if !c.IsDead() {
		c.decide(now)
	}
}
