package combat

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"aggrosim/internal/dist"
)

type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "ally"
}

func (s Side) Opposite() Side {
	if s == SideEnemy {
		return SideAlly
	}
	return SideEnemy
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "ally", "player", "":
		return SideAlly, nil
	case "enemy":
		return SideEnemy, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

type Role int

const (
	RoleDamage Role = iota
	RoleTank
	RoleHealer
)

func (r Role) String() string {
	switch r {
	case RoleTank:
		return "tank"
	case RoleHealer:
		return "healer"
	}
	return "damage"
}

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "damage", "":
		return RoleDamage, nil
	case "tank":
		return RoleTank, nil
	case "healer":
		return RoleHealer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

type ResourceType int

const (
	ResourceMana ResourceType = iota
	ResourceRage
	ResourceEnergy
)

func (r ResourceType) String() string {
	switch r {
	case ResourceRage:
		return "rage"
	case ResourceEnergy:
		return "energy"
	}
	return "mana"
}

func ParseResourceType(s string) (ResourceType, error) {
	switch strings.ToLower(s) {
	case "mana", "":
		return ResourceMana, nil
	case "rage":
		return ResourceRage, nil
	case "energy":
		return ResourceEnergy, nil
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

// CharacterSpec is the static description a Character is built from.
type CharacterSpec struct {
	Name       string
	Side       Side
	Role       Role
	PowerLevel int
	// AIStrength is clamped to [0,1]; see dist.Temperature.
	AIStrength float64

	MaxHealth        int
	MaxResource      int
	StartingResource int
	ResourceRegen    int
	RegenInterval    float64
	ResourceType     ResourceType

	Abilities []*Ability
}

// Character is one combatant. Health and resource stay inside [0, max]; once
// dead nothing mutates it any more.
type Character struct {
	ID         string
	Name       string
	Side       Side
	Role       Role
	PowerLevel int
	AIStrength float64

	health      int
	maxHealth   int
	resource    int
	maxResource int

	ResourceRegen int
	RegenInterval float64
	ResourceType  ResourceType

	Abilities []*AbilityState
	Policy    DecisionPolicy
	Threat    *ThreatLedger
	Effects   *EffectTrack

	machine    *fsm.FSM
	priorState CombatState
	moveStart  float64

	lastDecision float64
	gcdUntil     float64
	lastAttack   float64
	castStart    float64
	lastHurt     float64
	lastRegen    float64
	diedAt       float64

	pending *Decision
	casting *Decision

	sim *Simulation
	log *zap.Logger
}

func NewCharacter(spec CharacterSpec) *Character {
	c := &Character{
		ID:            uuid.NewString(),
		Name:          spec.Name,
		Side:          spec.Side,
		Role:          spec.Role,
		PowerLevel:    spec.PowerLevel,
		AIStrength:    clamp(spec.AIStrength, 0, 1),
		maxHealth:     max(spec.MaxHealth, 0),
		maxResource:   max(spec.MaxResource, 0),
		ResourceRegen: spec.ResourceRegen,
		RegenInterval: spec.RegenInterval,
		ResourceType:  spec.ResourceType,
		lastDecision:  math.Inf(-1),
		lastAttack:    math.Inf(-1),
		castStart:     math.Inf(-1),
		lastHurt:      math.Inf(-1),
		lastRegen:     math.Inf(-1),
		diedAt:        math.Inf(1),
		log:           zap.NewNop(),
	}
	if c.Name == "" {
		c.Name = c.ID[:8]
	}
	c.health = c.maxHealth
	c.resource = clampInt(spec.StartingResource, 0, c.maxResource)
	for _, ab := range spec.Abilities {
		c.Abilities = append(c.Abilities, &AbilityState{Ability: ab})
	}
	c.Threat = NewThreatLedger(c, ThreatPolicy{})
	c.Effects = newEffectTrack(c)
	c.machine = newCombatMachine(c)
	return c
}

func (c *Character) Health() int      { return c.health }
func (c *Character) MaxHealth() int   { return c.maxHealth }
func (c *Character) Resource() int    { return c.resource }
func (c *Character) MaxResource() int { return c.maxResource }
func (c *Character) IsDead() bool     { return c.State() == StateDead }

func (c *Character) HealthFraction() float64 {
	if c.maxHealth == 0 {
		return 0
	}
	return float64(c.health) / float64(c.maxHealth)
}

func (c *Character) ResourceFraction() float64 {
	if c.maxResource == 0 {
		return 0
	}
	return float64(c.resource) / float64(c.maxResource)
}

// Temperature is the sampling temperature derived from AIStrength.
func (c *Character) Temperature() float64 { return dist.Temperature(c.AIStrength) }

func (c *Character) String() string { return c.Name }

func (c *Character) now() float64 {
	if c.sim == nil {
		return 0
	}
	return c.sim.Now()
}

func (c *Character) emit(ev Event) {
	if c.sim == nil {
		return
	}
	c.sim.emitEvent(ev)
}

// Damage applies incoming damage after damage-reduction effects and returns the
// health actually lost.
func (c *Character) Damage(amount int) int {
	return c.takeDamage(amount, nil, "", true)
}

// takeDamage is the single damage path. Periodic effect damage passes
// mitigate=false and does not count as being hurt.
func (c *Character) takeDamage(amount int, source *Character, label string, mitigate bool) int {
	if c.IsDead() || amount <= 0 {
		return 0
	}
	if mitigate {
		amount = int(math.Round(float64(amount) * c.Effects.DamageReductionFactor()))
		c.lastHurt = c.now()
	}
	if amount <= 0 {
		return 0
	}
	before := c.health
	c.health = clampInt(c.health-amount, 0, c.maxHealth)
	lost := before - c.health
	if c.ResourceType == ResourceRage && c.maxHealth > 0 {
		c.AddResource(2 * int(float64(amount)*100/float64(c.maxHealth)))
	}
	c.emit(Event{T: c.now(), Kind: EventDamageApplied, Source: nameOf(source), Target: c.Name, Slot: c.slot(), Ability: label, Amount: float64(amount), Color: ColorRed})
	if c.sim != nil {
		c.sim.stats.damage(source, label, lost)
	}
	if c.health == 0 {
		c.die()
	}
	return lost
}

// Heal restores health up to the maximum and returns the amount restored.
func (c *Character) Heal(amount int) int {
	return c.restore(amount, nil, "")
}

func (c *Character) restore(amount int, source *Character, label string) int {
	if c.IsDead() || amount <= 0 {
		return 0
	}
	before := c.health
	c.health = clampInt(c.health+amount, 0, c.maxHealth)
	gained := c.health - before
	c.emit(Event{T: c.now(), Kind: EventHealed, Source: nameOf(source), Target: c.Name, Slot: c.slot(), Ability: label, Amount: float64(gained), Color: ColorGreen})
	if c.sim != nil {
		c.sim.stats.healing(source, label, gained)
	}
	return gained
}

// AddResource adds (or with a negative amount, removes) resource, clamped.
func (c *Character) AddResource(amount int) {
	if c.IsDead() || amount == 0 {
		return
	}
	before := c.resource
	c.resource = clampInt(c.resource+amount, 0, c.maxResource)
	if c.resource != before {
		c.emit(Event{T: c.now(), Kind: EventResourceChanged, Target: c.Name, Slot: c.slot(), Amount: float64(c.resource - before)})
	}
}

func (c *Character) AddThreat(source *Character, amount float64) {
	c.Threat.Add(source, amount)
}

func (c *Character) SetThreat(source *Character, value float64) {
	c.Threat.Set(source, value)
}

// ApplyEffect puts an effect from source on c; nil when c is dead.
func (c *Character) ApplyEffect(tpl *EffectTemplate, source *Character) *Effect {
	if c.IsDead() || tpl == nil {
		return nil
	}
	return c.Effects.Apply(tpl, source)
}

// HighestThreatHolder is who c wants to hit: an active taunt source first,
// otherwise the strict numeric leader of its threat ledger.
func (c *Character) HighestThreatHolder() *Character {
	if src := c.Effects.TauntSource(); src != nil && !src.IsDead() {
		return src
	}
	holder, _, ok := c.Threat.Highest()
	if !ok {
		return nil
	}
	return holder
}

func (c *Character) die() {
	if !c.fire(eventDie) {
		return
	}
	c.diedAt = c.now()
	c.pending = nil
	c.casting = nil
	c.Effects.Clear()
	c.Threat.Clear()
	c.log.Info("died", zap.Float64("t", c.diedAt))
	c.emit(Event{T: c.diedAt, Kind: EventDied, Target: c.Name, Slot: c.slot()})
	if c.sim != nil {
		c.sim.onDeath(c)
	}
}

func (c *Character) slot() int {
	if c == nil || c.sim == nil {
		return -1
	}
	return c.sim.Roster.SlotOf(c)
}

func nameOf(c *Character) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(hi, v))
}
