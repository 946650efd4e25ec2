package combat

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"aggrosim/internal/util"
)

type Env struct {
	Time  float64
	Delta float64
	Rng   *rand.Rand
}

type Options struct {
	Seed   int64
	Slots  int
	Tuning Tuning
	Log    *zap.Logger
	// Record keeps every event in the Result.
	Record bool
	// Snapshots, when set, receives a roster snapshot every SnapshotInterval.
	Snapshots func(Snapshot)
}

// Simulation owns the clock, the random source and every character. Nothing
// in it is safe for concurrent use; run one simulation per goroutine.
type Simulation struct {
	Env      Env
	Roster   *Roster
	Tuning   Tuning
	Log      *zap.Logger
	Timeline Timeline

	engine       *DecisionEngine
	stats        *runStats
	sinks        []func(Event)
	record       bool
	events       []Event
	snapshots    func(Snapshot)
	nextSnapshot float64
	meta         Meta
}

func NewSimulation(opts Options) *Simulation {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	tun := opts.Tuning
	if tun.Delta <= 0 {
		tun = DefaultTuning()
	}
	s := &Simulation{
		Env:       Env{Delta: tun.Delta, Rng: util.New(opts.Seed)},
		Roster:    NewRoster(opts.Slots),
		Tuning:    tun,
		Log:       log,
		stats:     newRunStats(),
		record:    opts.Record,
		snapshots: opts.Snapshots,
		meta:      Meta{Seed: opts.Seed},
	}
	s.engine = &DecisionEngine{Roster: s.Roster, Rng: s.Env.Rng, Tuning: tun, Log: log.Named("decide")}
	return s
}

func (s *Simulation) Now() float64 { return s.Env.Time }

// Engine is the default DecisionPolicy for characters without their own.
func (s *Simulation) Engine() *DecisionEngine { return s.engine }

// Subscribe adds an event sink. Sinks run synchronously inside Tick.
func (s *Simulation) Subscribe(fn func(Event)) {
	s.sinks = append(s.sinks, fn)
}

// Queue subscribes a fresh buffered queue, for consumers on another goroutine.
func (s *Simulation) Queue(capacity int) *EventQueue {
	q := NewEventQueue(capacity)
	s.Subscribe(q.Push)
	return q
}

func (s *Simulation) emitEvent(ev Event) {
	if s.record {
		s.events = append(s.events, ev)
	}
	for _, fn := range s.sinks {
		fn(ev)
	}
}

func (s *Simulation) label(t float64, target *Character, text string, color Color) {
	s.emitEvent(Event{T: t, Kind: EventLabel, Target: nameOf(target), Slot: target.slot(), Text: text, Color: color})
}

// alive is the threat-ledger liveness test: alive and still on the field.
func (s *Simulation) alive(c *Character) bool {
	return c != nil && !c.IsDead() && s.Roster.Contains(c)
}

// Spawn places c on its side; slot < 0 picks the most central free lane.
func (s *Simulation) Spawn(c *Character, slot int) error {
	var err error
	if slot < 0 {
		_, err = s.Roster.PlaceCentred(c.Side, c)
	} else {
		err = s.Roster.Place(c.Side, slot, c)
	}
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	c.sim = s
	c.log = s.Log.Named(c.Name)
	c.Threat.SetPolicy(s.Tuning.Threat)
	gcd := s.Tuning.GlobalCooldown
	c.gcdUntil = s.Env.Time + gcd - util.Range(s.Env.Rng, 0, gcd*0.5)
	s.meta.Characters = append(s.meta.Characters, CharacterMeta{
		ID: c.ID, Name: c.Name, Side: c.Side.String(), Role: c.Role.String(),
		Slot: c.slot(), MaxHealth: c.maxHealth, MaxResource: c.maxResource,
	})
	c.log.Debug("spawn", zap.Int("slot", c.slot()), zap.Int("hp", c.maxHealth))
	s.emitEvent(Event{T: s.Env.Time, Kind: EventSpawn, Target: c.Name, Slot: c.slot(), Amount: float64(c.maxHealth)})
	return nil
}

// Lookup finds a character on the field by id.
func (s *Simulation) Lookup(id string) (*Character, error) {
	c := s.Roster.Lookup(id)
	if c == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownCharacter)
	}
	return c, nil
}

// Tick runs one step at the current time and then advances the clock by dt:
// due timeline work first, then every character in roster order. Each
// resolution is fully applied before the next character acts.
func (s *Simulation) Tick(dt float64) {
	now := s.Env.Time
	s.Timeline.RunDue(now)
	order := append(s.Roster.ActiveAllies(), s.Roster.ActiveEnemies()...)
	for _, c := range order {
		if !c.IsDead() && s.Roster.Contains(c) {
			c.tick(now, dt)
		}
	}
	if s.snapshots != nil && now >= s.nextSnapshot {
		s.snapshots(s.Snapshot())
		s.nextSnapshot = now + s.Tuning.SnapshotInterval
	}
	s.Env.Time += dt
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{T: s.Env.Time}
	s.Roster.Each(func(c *Character) {
		snap.Characters = append(snap.Characters, c.Snapshot())
	})
	return snap
}

// Winner reports the surviving side once the other is wiped out: "allies",
// "enemies", "draw" when nobody is left, "" while both still stand.
func (s *Simulation) Winner() string {
	allies := len(s.Roster.Living(SideAlly)) > 0
	enemies := len(s.Roster.Living(SideEnemy)) > 0
	switch {
	case allies && enemies:
		return ""
	case allies:
		return "allies"
	case enemies:
		return "enemies"
	}
	return "draw"
}

// Run steps until one side is eliminated or maxDuration elapses.
func (s *Simulation) Run(maxDuration float64) Result {
	for s.Winner() == "" && s.Env.Time < maxDuration {
		s.Tick(s.Env.Delta)
	}
	res := s.Result()
	s.Log.Info("run finished",
		zap.String("winner", res.Winner),
		zap.Float64("duration", res.Duration),
		zap.Int("decisions", res.Decisions),
		zap.Int("passes", res.Passes),
		zap.Int("deaths", len(res.Deaths)))
	return res
}

func (s *Simulation) Result() Result {
	res := Result{
		Winner:             s.Winner(),
		Duration:           math.Round(s.Env.Time*1000) / 1000,
		DamageByCharacter:  s.stats.damageByCharacter,
		DamageByAbility:    s.stats.damageByAbility,
		HealingByCharacter: s.stats.healingByCharacter,
		HealingByAbility:   s.stats.healingByAbility,
		Deaths:             s.stats.deaths,
		Decisions:          s.stats.decisions,
		Passes:             s.stats.passes,
		Misses:             s.stats.misses,
		Meta:               s.meta,
	}
	if s.record {
		res.Events = s.events
	}
	return res
}

// deliver fans the attack out to its impacts. Area and volley attacks hit
// every living opponent; a volley staggers its projectiles.
func (s *Simulation) deliver(attacker *Character, d Decision) {
	ab := d.Ability.Ability
	targets := []*Character{d.Target}
	if d.Area || (ab.Delivery.Kind == DeliverVolley && d.Target != attacker) {
		targets = s.Roster.Opponents(attacker)
	}
	base := ab.Delivery.ImpactDelay
	if ab.Delivery.Kind == DeliverProjectile || ab.Delivery.Kind == DeliverVolley {
		base += ab.Delivery.TravelTime
	}
	for i, t := range targets {
		t := t
		delay := base
		if ab.Delivery.Kind == DeliverVolley {
			delay += float64(i) * ab.Delivery.Stagger
		}
		if delay <= 0 {
			s.impact(attacker, ab, t)
			continue
		}
		s.Timeline.At(s.Env.Time+delay, func() { s.impact(attacker, ab, t) })
	}
}

// impact applies one hit. The target may have died or left since the attack
// fired; that is a miss.
func (s *Simulation) impact(attacker *Character, ab *Ability, target *Character) {
	now := s.Env.Time
	if !s.alive(target) {
		s.stats.misses++
		s.emitEvent(Event{T: now, Kind: EventMiss, Source: attacker.Name, Target: nameOf(target), Slot: target.slot(), Ability: ab.Name, Text: "Miss", Color: ColorGray})
		return
	}
	if ab.Taunt && target != attacker && !attacker.IsDead() {
		if highest, _ := target.Threat.Top2(); highest > 0 {
			target.SetThreat(attacker, highest+s.Tuning.TauntBonus)
			s.label(now, target, "Taunt", ColorYellow)
		}
	}
	if ab.Damage > 0 {
		target.takeDamage(ab.Damage, attacker, ab.Name, true)
		if !attacker.IsDead() {
			target.AddThreat(attacker, float64(ab.Damage)*ab.ThreatMultiplier)
		}
	}
	if ab.Heal > 0 {
		target.restore(ab.Heal, attacker, ab.Name)
	}
	if ab.Effect != nil && !target.IsDead() {
		target.ApplyEffect(ab.Effect, attacker)
	}
}

// onDeath drops c from every ledger and queues its removal from the field.
func (s *Simulation) onDeath(c *Character) {
	now := s.Env.Time
	s.stats.deaths = append(s.stats.deaths, Death{T: now, Name: c.Name, Side: c.Side.String()})
	s.Roster.Each(func(o *Character) {
		o.Threat.Remove(c)
	})
	s.Timeline.At(now+s.Tuning.DeathGrace, func() {
		if s.Roster.RemoveCharacter(c.ID) {
			c.log.Info("removed", zap.Float64("t", s.Env.Time))
			s.emitEvent(Event{T: s.Env.Time, Kind: EventRemoved, Target: c.Name, Slot: -1})
		}
	})
}

type Result struct {
	Winner             string             `json:"winner"`
	Duration           float64            `json:"duration"`
	DamageByCharacter  map[string]float64 `json:"damage_by_character"`
	DamageByAbility    map[string]float64 `json:"damage_by_ability,omitempty"`
	HealingByCharacter map[string]float64 `json:"healing_by_character,omitempty"`
	HealingByAbility   map[string]float64 `json:"healing_by_ability,omitempty"`
	Deaths             []Death            `json:"deaths"`
	Decisions          int                `json:"decisions"`
	Passes             int                `json:"passes"`
	Misses             int                `json:"misses"`
	Events             []Event            `json:"events,omitempty"`
	Meta               Meta               `json:"meta"`
}

type Meta struct {
	Scenario   string          `json:"scenario,omitempty"`
	Seed       int64           `json:"seed"`
	Characters []CharacterMeta `json:"characters"`
	Notes      []string        `json:"notes,omitempty"`
}

type CharacterMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Side        string `json:"side"`
	Role        string `json:"role"`
	Slot        int    `json:"slot"`
	MaxHealth   int    `json:"max_health"`
	MaxResource int    `json:"max_resource"`
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
