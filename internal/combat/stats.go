package combat

// runStats accumulates the totals reported in a Result.
type runStats struct {
	damageByCharacter  map[string]float64
	damageByAbility    map[string]float64
	healingByCharacter map[string]float64
	healingByAbility   map[string]float64
	deaths             []Death
	decisions          int
	passes             int
	misses             int
}

type Death struct {
	T    float64 `json:"t"`
	Name string  `json:"name"`
	Side string  `json:"side"`
}

func newRunStats() *runStats {
	return &runStats{
		damageByCharacter:  map[string]float64{},
		damageByAbility:    map[string]float64{},
		healingByCharacter: map[string]float64{},
		healingByAbility:   map[string]float64{},
	}
}

func (s *runStats) damage(source *Character, label string, amount int) {
	if amount <= 0 || source == nil {
		return
	}
	s.damageByCharacter[source.Name] += float64(amount)
	if label != "" {
		s.damageByAbility[label] += float64(amount)
	}
}

func (s *runStats) healing(source *Character, label string, amount int) {
	if amount <= 0 || source == nil {
		return
	}
	s.healingByCharacter[source.Name] += float64(amount)
	if label != "" {
		s.healingByAbility[label] += float64(amount)
	}
}
