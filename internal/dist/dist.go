// Package dist builds, reshapes and samples weighted distributions.
//
// A Distribution maps candidates to real weights that need not sum to one.
// Keys keep their insertion order, so iteration, combination and sampling are
// reproducible for a given random source.
package dist

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTemperature is returned by Sample when temperature <= 0.
var ErrInvalidTemperature = errors.New("temperature must be greater than zero")

// Source is the slice of *rand.Rand the sampler needs.
type Source interface {
	Float64() float64
}

// Distribution is an insertion-ordered candidate -> weight map.
// The zero value is not usable; build one with New or FromPairs.
type Distribution[K comparable] struct {
	keys    []K
	weights map[K]float64
}

func New[K comparable]() *Distribution[K] {
	return &Distribution[K]{weights: map[K]float64{}}
}

// FromPairs builds a distribution from parallel slices. Extra weights are ignored,
// missing weights are zero.
func FromPairs[K comparable](keys []K, weights []float64) *Distribution[K] {
	d := New[K]()
	for i, k := range keys {
		w := 0.0
		if i < len(weights) {
			w = weights[i]
		}
		d.Set(k, w)
	}
	return d
}

// Set overwrites the weight of k, appending k if it is new.
func (d *Distribution[K]) Set(k K, w float64) {
	if _, ok := d.weights[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.weights[k] = w
}

// Add accumulates w onto the weight of k.
func (d *Distribution[K]) Add(k K, w float64) {
	if _, ok := d.weights[k]; !ok {
		d.keys = append(d.keys, k)
	}
	d.weights[k] += w
}

func (d *Distribution[K]) Get(k K) (float64, bool) {
	if d == nil {
		return 0, false
	}
	w, ok := d.weights[k]
	return w, ok
}

func (d *Distribution[K]) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Keys returns a copy of the keys in insertion order.
func (d *Distribution[K]) Keys() []K {
	if d == nil {
		return nil
	}
	return append([]K(nil), d.keys...)
}

// Each visits entries in insertion order.
func (d *Distribution[K]) Each(fn func(k K, w float64)) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		fn(k, d.weights[k])
	}
}

// Max returns the largest weight.
func (d *Distribution[K]) Max() (float64, bool) {
	_, w, ok := d.argmax()
	return w, ok
}

// Argmax returns the key with the largest weight. Ties go to the key inserted first.
func (d *Distribution[K]) Argmax() (K, bool) {
	k, _, ok := d.argmax()
	return k, ok
}

func (d *Distribution[K]) argmax() (K, float64, bool) {
	var best K
	if d.Len() == 0 {
		return best, 0, false
	}
	bestW := math.Inf(-1)
	found := false
	for _, k := range d.keys {
		w := d.weights[k]
		if !found || w > bestW {
			best, bestW, found = k, w, true
		}
	}
	return best, bestW, found
}

func (d *Distribution[K]) String() string {
	if d.Len() == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %.4f", k, d.weights[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Normalize rescales weights linearly into [lo, hi] using the distribution's own
// minimum and maximum. When every weight is equal each key maps to lo.
func Normalize[K comparable](d *Distribution[K], lo, hi float64) *Distribution[K] {
	out := New[K]()
	if d.Len() == 0 {
		return out
	}
	curMin, curMax := math.Inf(1), math.Inf(-1)
	for _, k := range d.keys {
		w := d.weights[k]
		curMin = math.Min(curMin, w)
		curMax = math.Max(curMax, w)
	}
	if curMin == curMax {
		for _, k := range d.keys {
			out.Set(k, lo)
		}
		return out
	}
	floor, ceil := math.Min(lo, hi), math.Max(lo, hi)
	for _, k := range d.keys {
		t := (d.weights[k] - curMin) / (curMax - curMin)
		v := lo + (hi-lo)*t
		out.Set(k, math.Max(floor, math.Min(ceil, v)))
	}
	return out
}

// Combine returns the weighted sum of ds over the union of their keys; a key
// absent from an input contributes zero. A nil weights slice splits evenly;
// inputs past the end of a non-nil weights slice get weight zero.
func Combine[K comparable](ds []*Distribution[K], weights []float64) *Distribution[K] {
	out := New[K]()
	if len(ds) == 0 {
		return out
	}
	for i, d := range ds {
		w := 1.0 / float64(len(ds))
		if weights != nil {
			w = 0
			if i < len(weights) {
				w = weights[i]
			}
		}
		for _, k := range d.Keys() {
			out.Add(k, d.weights[k]*w)
		}
	}
	return out
}

// Sample draws one key from a temperature-scaled softmax over the weights.
//
// Low temperatures approach argmax, high temperatures approach a uniform pick.
// Tied maxima stay equally likely at any temperature; Argmax is the
// deterministic pick, taking the first in insertion order. Keys whose scaled weight underflows to zero are
// never returned. An empty distribution yields ok == false and no error.
func Sample[K comparable](d *Distribution[K], temperature float64, rng Source) (key K, ok bool, err error) {
	if !(temperature > 0) {
		return key, false, fmt.Errorf("sample: %w (got %v)", ErrInvalidTemperature, temperature)
	}
	if d.Len() == 0 {
		return key, false, nil
	}
	maxW, _ := d.Max()
	scaled := make([]float64, len(d.keys))
	total := 0.0
	for i, k := range d.keys {
		w := math.Exp((d.weights[k] - maxW) / temperature)
		if math.IsNaN(w) {
			w = 0
		}
		scaled[i] = w
		total += w
	}
	if total <= 0 {
		return key, false, nil
	}
	r := rng.Float64() * total
	acc := 0.0
	last := -1
	for i, w := range scaled {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return d.keys[i], true, nil
		}
	}
	// rounding can leave r just past the final bucket
	return d.keys[last], true, nil
}

// Temperature maps an AI strength in [0,1] to a sampling temperature:
// 0 -> 100 (near uniform), 1 -> 0.01 (near argmax).
func Temperature(strength float64) float64 {
	return math.Pow(10, (1-strength)*4-2)
}
