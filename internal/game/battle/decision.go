// Package battle holds the per-battle state shared by the battle flow: the
// party and enemy instances, the damage calculator and the pending decisions.
package battle

import (
	"slices"

	"github.com/cory-johannsen/skirmish/internal/game/battler"
	"github.com/cory-johannsen/skirmish/internal/game/skill"
)

// Decision is a queued skill use.
type Decision struct {
	Skill  *skill.Skill
	Source *battler.Instance
	Target *battler.Instance
}

// DecisionOrdering buckets pending decisions by the source's priority.
// Lower priorities act first. A bucket may be transiently empty until the
// next CleanTop.
//
// Invariant: at most one decision per source instance.
type DecisionOrdering struct {
	buckets map[int][]Decision
}

// NewDecisionOrdering returns an empty ordering.
func NewDecisionOrdering() *DecisionOrdering {
	return &DecisionOrdering{buckets: make(map[int][]Decision)}
}

// Add queues d, replacing any pending decision from the same source.
//
// Precondition: d.Source must be non-nil.
func (o *DecisionOrdering) Add(d Decision) {
	o.Remove(d.Source)
	p := d.Source.Priority()
	o.buckets[p] = append(o.buckets[p], d)
}

// Find returns the pending decision of source.
func (o *DecisionOrdering) Find(source *battler.Instance) (Decision, bool) {
	bucket := o.buckets[source.Priority()]
	if i := indexOf(bucket, source); i >= 0 {
		return bucket[i], true
	}
	return Decision{}, false
}

// Remove drops the pending decision of source. The bucket is left in place
// even when it becomes empty.
//
// Postcondition: Returns true iff a decision was removed.
func (o *DecisionOrdering) Remove(source *battler.Instance) bool {
	p := source.Priority()
	bucket, ok := o.buckets[p]
	if !ok {
		return false
	}
	i := indexOf(bucket, source)
	if i < 0 {
		return false
	}
	o.buckets[p] = slices.Delete(bucket, i, i+1)
	return true
}

// CleanTop prunes empty buckets from the lowest priority upward and returns
// the first non-empty bucket.
//
// Postcondition: Returns (nil, 0, false) and leaves no buckets when every bucket is empty.
func (o *DecisionOrdering) CleanTop() ([]Decision, int, bool) {
	for _, p := range o.Priorities() {
		if len(o.buckets[p]) > 0 {
			return o.buckets[p], p, true
		}
		delete(o.buckets, p)
	}
	return nil, 0, false
}

// PopTop removes and returns the first decision of the top bucket.
func (o *DecisionOrdering) PopTop() (Decision, bool) {
	bucket, p, ok := o.CleanTop()
	if !ok {
		return Decision{}, false
	}
	d := bucket[0]
	o.buckets[p] = slices.Delete(bucket, 0, 1)
	return d, true
}

// Len returns the number of pending decisions.
func (o *DecisionOrdering) Len() int {
	n := 0
	for _, b := range o.buckets {
		n += len(b)
	}
	return n
}

// Priorities returns every bucket priority, including empty ones, ascending.
func (o *DecisionOrdering) Priorities() []int {
	out := make([]int, 0, len(o.buckets))
	for p := range o.buckets {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clear drops every bucket.
func (o *DecisionOrdering) Clear() {
	clear(o.buckets)
}

func indexOf(bucket []Decision, source *battler.Instance) int {
	return slices.IndexFunc(bucket, func(d Decision) bool { return d.Source.ID() == source.ID() })
}
