package combat

import (
	"fmt"
	"math/rand"
	"sort"
)

// Roster places characters in numbered lanes, one array per side. The lane
// index is the only geometry: lane i faces lane i on the other side.
type Roster struct {
	allies  []*Character
	enemies []*Character
}

func NewRoster(slots int) *Roster {
	slots = max(slots, 1)
	return &Roster{
		allies:  make([]*Character, slots),
		enemies: make([]*Character, slots),
	}
}

func (r *Roster) Slots() int { return len(r.allies) }

func (r *Roster) lanes(s Side) []*Character {
	if s == SideEnemy {
		return r.enemies
	}
	return r.allies
}

func (r *Roster) Place(s Side, slot int, c *Character) error {
	lanes := r.lanes(s)
	if slot < 0 || slot >= len(lanes) {
		return fmt.Errorf("place %s in %s slot %d: %w", c.Name, s, slot, ErrSlotOutOfRange)
	}
	if lanes[slot] != nil {
		return fmt.Errorf("place %s in %s slot %d: %w", c.Name, s, slot, ErrSlotOccupied)
	}
	lanes[slot] = c
	return nil
}

// PlaceCentred puts c in the free lane closest to the middle, lower lane first
// on ties. Returns the chosen slot.
func (r *Roster) PlaceCentred(s Side, c *Character) (int, error) {
	lanes := r.lanes(s)
	for _, slot := range centreOrder(len(lanes)) {
		if lanes[slot] == nil {
			lanes[slot] = c
			return slot, nil
		}
	}
	return -1, fmt.Errorf("place %s on %s side: %w", c.Name, s, ErrSideFull)
}

func centreOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	mid := float64(n-1) / 2
	dist := func(i int) float64 {
		d := float64(i) - mid
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dist(order[a]) < dist(order[b])
	})
	return order
}

func occupied(lanes []*Character) []*Character {
	var out []*Character
	for _, c := range lanes {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ActiveAllies lists placed allies in lane order, including ones that died
// but have not been removed yet.
func (r *Roster) ActiveAllies() []*Character { return occupied(r.allies) }

func (r *Roster) ActiveEnemies() []*Character { return occupied(r.enemies) }

// Living lists the side's characters that are still alive, in lane order.
func (r *Roster) Living(s Side) []*Character {
	var out []*Character
	for _, c := range r.lanes(s) {
		if c != nil && !c.IsDead() {
			out = append(out, c)
		}
	}
	return out
}

func (r *Roster) Opponents(c *Character) []*Character { return r.Living(c.Side.Opposite()) }

// Allies lists the living members of c's side other than c.
func (r *Roster) Allies(c *Character) []*Character {
	var out []*Character
	for _, o := range r.Living(c.Side) {
		if o != c {
			out = append(out, o)
		}
	}
	return out
}

func (r *Roster) SlotOf(c *Character) int {
	if c == nil {
		return -1
	}
	for i, o := range r.lanes(c.Side) {
		if o == c {
			return i
		}
	}
	return -1
}

func (r *Roster) Contains(c *Character) bool { return r.SlotOf(c) >= 0 }

func (r *Roster) Lookup(id string) *Character {
	for _, lanes := range [][]*Character{r.allies, r.enemies} {
		for _, c := range lanes {
			if c != nil && c.ID == id {
				return c
			}
		}
	}
	return nil
}

// RemoveCharacter clears the lane holding id. Reports whether anything was
// removed.
func (r *Roster) RemoveCharacter(id string) bool {
	for _, lanes := range [][]*Character{r.allies, r.enemies} {
		for i, c := range lanes {
			if c != nil && c.ID == id {
				lanes[i] = nil
				return true
			}
		}
	}
	return false
}

// Each visits allies then enemies in lane order.
func (r *Roster) Each(fn func(*Character)) {
	for _, c := range r.ActiveAllies() {
		fn(c)
	}
	for _, c := range r.ActiveEnemies() {
		fn(c)
	}
}

// ClosestOpponent looks straight across first, then widens one lane at a time.
// When both neighbours at the same distance are alive one is picked at random;
// with a nil rng the upper lane wins.
func (r *Roster) ClosestOpponent(c *Character, rng *rand.Rand) *Character {
	slot := r.SlotOf(c)
	if slot < 0 {
		return nil
	}
	targets := r.lanes(c.Side.Opposite())
	alive := func(i int) bool {
		return i >= 0 && i < len(targets) && targets[i] != nil && !targets[i].IsDead()
	}
	if alive(slot) {
		return targets[slot]
	}
	for d := 1; d < len(targets)+len(r.lanes(c.Side)); d++ {
		var found []*Character
		if alive(slot + d) {
			found = append(found, targets[slot+d])
		}
		if alive(slot - d) {
			found = append(found, targets[slot-d])
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0]
		}
		if rng == nil {
			return found[0]
		}
		return found[rng.Intn(len(found))]
	}
	return nil
}
