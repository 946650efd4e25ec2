package combat

// ThreatPolicy selects the ledger variant. Zero values give the plain ledger:
// values only grow and any positive entry can hold aggro.
type ThreatPolicy struct {
	DecayPerSecond float64
	// RedirectThreshold is the value an entry must exceed before it is
	// considered for aggro at all.
	RedirectThreshold float64
}

type ThreatEntry struct {
	Source *Character
	Value  float64
}

// ThreatLedger records how much threat each attacker generated against its
// owner. Entries keep first-contribution order, which is also the tie order.
type ThreatLedger struct {
	owner   *Character
	policy  ThreatPolicy
	entries []ThreatEntry
}

func NewThreatLedger(owner *Character, policy ThreatPolicy) *ThreatLedger {
	return &ThreatLedger{owner: owner, policy: policy}
}

func (l *ThreatLedger) SetPolicy(p ThreatPolicy) { l.policy = p }

func (l *ThreatLedger) ownerDead() bool {
	return l.owner != nil && l.owner.IsDead()
}

func (l *ThreatLedger) index(source *Character) int {
	for i := range l.entries {
		if l.entries[i].Source == source {
			return i
		}
	}
	return -1
}

// Add accumulates amount for source. Negative results clamp to zero.
func (l *ThreatLedger) Add(source *Character, amount float64) {
	if source == nil || l.ownerDead() || amount == 0 {
		return
	}
	i := l.index(source)
	if i < 0 {
		l.entries = append(l.entries, ThreatEntry{Source: source})
		i = len(l.entries) - 1
	}
	l.entries[i].Value = max(0, l.entries[i].Value+amount)
	l.changed(source, l.entries[i].Value)
}

// Set overwrites the value for source.
func (l *ThreatLedger) Set(source *Character, value float64) {
	if source == nil || l.ownerDead() {
		return
	}
	value = max(0, value)
	if i := l.index(source); i >= 0 {
		l.entries[i].Value = value
	} else {
		l.entries = append(l.entries, ThreatEntry{Source: source, Value: value})
	}
	l.changed(source, value)
}

func (l *ThreatLedger) changed(source *Character, value float64) {
	if l.owner == nil {
		return
	}
	l.owner.emit(Event{T: l.owner.now(), Kind: EventThreatChanged, Source: source.Name, Target: l.owner.Name, Slot: l.owner.slot(), Amount: value})
}

func (l *ThreatLedger) Get(source *Character) float64 {
	if i := l.index(source); i >= 0 {
		return l.entries[i].Value
	}
	return 0
}

func (l *ThreatLedger) Remove(source *Character) {
	if i := l.index(source); i >= 0 {
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
	}
}

func (l *ThreatLedger) Clear() { l.entries = nil }

func (l *ThreatLedger) Len() int { return len(l.entries) }

// Entries returns a copy in insertion order.
func (l *ThreatLedger) Entries() []ThreatEntry {
	return append([]ThreatEntry(nil), l.entries...)
}

// Total sums every entry.
func (l *ThreatLedger) Total() float64 {
	sum := 0.0
	for _, e := range l.entries {
		sum += e.Value
	}
	return sum
}

// Highest returns the entry with the strictly greatest value above the
// redirect threshold (and above zero). The earliest entry wins ties.
func (l *ThreatLedger) Highest() (*Character, float64, bool) {
	floor := max(0, l.policy.RedirectThreshold)
	var best *Character
	bestV := 0.0
	for _, e := range l.entries {
		if e.Value <= floor {
			continue
		}
		if best == nil || e.Value > bestV {
			best, bestV = e.Source, e.Value
		}
	}
	return best, bestV, best != nil
}

// Top2 returns the largest and second largest values, zero when missing. The
// second is the best value strictly below the largest one seen while scanning,
// so two equal leaders report second == highest.
func (l *ThreatLedger) Top2() (highest, second float64) {
	for _, e := range l.entries {
		switch {
		case e.Value > highest:
			second = highest
			highest = e.Value
		case e.Value > second:
			second = e.Value
		}
	}
	return highest, second
}

// Prune drops entries whose source is no longer alive.
func (l *ThreatLedger) Prune(alive func(*Character) bool) {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if alive(e.Source) {
			kept = append(kept, e)
		}
	}
	clear(l.entries[len(kept):])
	l.entries = kept
}

// Decay bleeds every entry by DecayPerSecond*dt and drops the ones that reach
// zero. No-op for the non-decaying variant.
func (l *ThreatLedger) Decay(dt float64) {
	if l.policy.DecayPerSecond <= 0 || dt <= 0 {
		return
	}
	step := l.policy.DecayPerSecond * dt
	kept := l.entries[:0]
	for _, e := range l.entries {
		e.Value -= step
		if e.Value > 0 {
			kept = append(kept, e)
		}
	}
	clear(l.entries[len(kept):])
	l.entries = kept
}
