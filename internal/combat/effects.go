package combat

import (
	"fmt"
	"math"
	"strings"
)

type EffectKind int

const (
	EffectStun EffectKind = iota
	EffectTaunt
	EffectBleed
	EffectDamageReduction
	EffectResourceRegen
	EffectHealingOverTime
)

var effectKindNames = map[EffectKind]string{
	EffectStun:            "stun",
	EffectTaunt:           "taunt",
	EffectBleed:           "bleed",
	EffectDamageReduction: "damage_reduction",
	EffectResourceRegen:   "resource_regen",
	EffectHealingOverTime: "healing_over_time",
}

func (k EffectKind) String() string {
	if s, ok := effectKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

func ParseEffectKind(s string) (EffectKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range effectKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// periodic kinds do something on every tick
func (k EffectKind) periodic() bool {
	return k == EffectBleed || k == EffectResourceRegen || k == EffectHealingOverTime
}

// EffectTemplate is the immutable definition shared by every application.
type EffectTemplate struct {
	ID           string
	Name         string
	Kind         EffectKind
	Icon         string
	Value        float64
	Duration     float64
	TickInterval float64
	Stackable    bool
	MaxStacks    int
}

func (t *EffectTemplate) stackCap() int {
	return max(t.MaxStacks, 1)
}

// Effect is one live application on a target.
type Effect struct {
	Template  *EffectTemplate
	Target    *Character
	Source    *Character
	Stacks    int
	Remaining float64

	elapsed  float64
	nextTick float64
	removed  bool
}

func (e *Effect) Kind() EffectKind { return e.Template.Kind }
func (e *Effect) Expired() bool    { return e.Remaining <= 0 }

// EffectTrack holds at most one effect per kind for its owner.
type EffectTrack struct {
	owner   *Character
	effects []*Effect

	// OnApply and OnRemove observe the track; OnRemove runs exactly once per
	// effect however it leaves.
	OnApply  func(*Effect)
	OnRemove func(*Effect)
}

func newEffectTrack(owner *Character) *EffectTrack {
	return &EffectTrack{owner: owner}
}

// Apply merges into an existing effect of the same kind or inserts a new one.
// A merge takes the incoming source and template, restarts the duration and
// tick clock, and adds a stack when the template is stackable. A dead owner
// takes nothing.
func (t *EffectTrack) Apply(tpl *EffectTemplate, source *Character) *Effect {
	if tpl == nil || (t.owner != nil && t.owner.IsDead()) {
		return nil
	}
	e := t.Find(tpl.Kind)
	if e != nil {
		e.Source = source
		e.Template = tpl
		e.Remaining = tpl.Duration
		e.elapsed = 0
		e.nextTick = 0
		if tpl.Stackable {
			e.Stacks = min(e.Stacks+1, tpl.stackCap())
		} else {
			e.Stacks = min(e.Stacks, tpl.stackCap())
		}
	} else {
		e = &Effect{
			Template:  tpl,
			Target:    t.owner,
			Source:    source,
			Stacks:    1,
			Remaining: tpl.Duration,
		}
		t.effects = append(t.effects, e)
	}
	if t.owner != nil {
		t.owner.emit(Event{T: t.owner.now(), Kind: EventEffectApplied, Source: nameOf(source), Target: t.owner.Name, Slot: t.owner.slot(), Ability: tpl.Name, Amount: float64(e.Stacks)})
	}
	if t.OnApply != nil {
		t.OnApply(e)
	}
	return e
}

// Advance moves every effect forward by dt, firing the ticks that fall due
// and then removing whatever expired. Stops early if a tick kills the owner.
func (t *EffectTrack) Advance(dt float64) {
	for _, e := range append([]*Effect(nil), t.effects...) {
		if e.removed {
			continue
		}
		e.elapsed += dt
		e.Remaining -= dt
		if !e.Kind().periodic() {
			continue
		}
		for e.nextTick <= e.elapsed && e.nextTick < e.Template.Duration {
			t.tick(e)
			if t.owner != nil && t.owner.IsDead() {
				return
			}
			if e.Template.TickInterval > 0 {
				e.nextTick += e.Template.TickInterval
			} else {
				e.nextTick = math.Inf(1)
			}
		}
	}
	kept := t.effects[:0]
	var expired []*Effect
	for _, e := range t.effects {
		if e.Expired() {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	clear(t.effects[len(kept):])
	t.effects = kept
	for _, e := range expired {
		t.fireRemove(e)
	}
}

func (t *EffectTrack) tick(e *Effect) {
	owner := t.owner
	if owner == nil {
		return
	}
	amount := int(math.Round(e.Template.Value))
	switch e.Kind() {
	case EffectBleed:
		owner.takeDamage(amount*e.Stacks, e.Source, e.Template.Name, false)
	case EffectHealingOverTime:
		owner.restore(amount, e.Source, e.Template.Name)
	case EffectResourceRegen:
		owner.AddResource(amount)
	}
}

func (t *EffectTrack) fireRemove(e *Effect) {
	if e.removed {
		return
	}
	e.removed = true
	if t.owner != nil {
		t.owner.emit(Event{T: t.owner.now(), Kind: EventEffectRemoved, Source: nameOf(e.Source), Target: t.owner.Name, Slot: t.owner.slot(), Ability: e.Template.Name})
	}
	if t.OnRemove != nil {
		t.OnRemove(e)
	}
}

func (t *EffectTrack) Find(kind EffectKind) *Effect {
	for _, e := range t.effects {
		if e.Kind() == kind {
			return e
		}
	}
	return nil
}

func (t *EffectTrack) Has(kind EffectKind) bool { return t.Find(kind) != nil }

// TauntSource is the source of an active taunt, or nil.
func (t *EffectTrack) TauntSource() *Character {
	if e := t.Find(EffectTaunt); e != nil {
		return e.Source
	}
	return nil
}

// Remove drops the effect of the given kind, firing its remove hook.
func (t *EffectTrack) Remove(kind EffectKind) bool {
	for i, e := range t.effects {
		if e.Kind() == kind {
			t.effects = append(t.effects[:i], t.effects[i+1:]...)
			t.fireRemove(e)
			return true
		}
	}
	return false
}

// Clear removes everything; each remove hook fires once.
func (t *EffectTrack) Clear() {
	all := t.effects
	t.effects = nil
	for _, e := range all {
		t.fireRemove(e)
	}
}

func (t *EffectTrack) Len() int { return len(t.effects) }

// DamageReductionFactor multiplies (1 - value) over every damage-reduction
// effect. 1 means no reduction.
func (t *EffectTrack) DamageReductionFactor() float64 {
	f := 1.0
	for _, e := range t.effects {
		if e.Kind() == EffectDamageReduction {
			f *= 1 - e.Template.Value
		}
	}
	return max(0, f)
}

func (t *EffectTrack) Snapshot() []EffectSnapshot {
	out := make([]EffectSnapshot, 0, len(t.effects))
	for _, e := range t.effects {
		out = append(out, EffectSnapshot{
			Name:      e.Template.Name,
			Kind:      e.Kind().String(),
			Icon:      e.Template.Icon,
			Stacks:    e.Stacks,
			Remaining: e.Remaining,
			Source:    nameOf(e.Source),
		})
	}
	return out
}
