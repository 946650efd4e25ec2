package combat

import "container/heap"

type scheduled struct {
	at  float64
	seq uint64
	fn  func()
}

type schedule []*scheduled

func (s schedule) Len() int { return len(s) }
func (s schedule) Less(i, j int) bool {
	if s[i].at != s[j].at {
		return s[i].at < s[j].at
	}
	return s[i].seq < s[j].seq
}
func (s schedule) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s *schedule) Push(x any)   { *s = append(*s, x.(*scheduled)) }
func (s *schedule) Pop() any {
	old := *s
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return it
}

// Timeline runs deferred work in (time, scheduling order) order. Work
// scheduled while running may itself be due and runs in the same pass.
type Timeline struct {
	items schedule
	seq   uint64
}

func (t *Timeline) At(at float64, fn func()) {
	t.seq++
	heap.Push(&t.items, &scheduled{at: at, seq: t.seq, fn: fn})
}

func (t *Timeline) Len() int { return len(t.items) }

// RunDue pops and runs every entry with at <= now. Returns how many ran.
func (t *Timeline) RunDue(now float64) int {
	n := 0
	for len(t.items) > 0 && t.items[0].at <= now {
		it := heap.Pop(&t.items).(*scheduled)
		it.fn()
		n++
	}
	return n
}
