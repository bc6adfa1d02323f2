package internal

import (
	"fmt"
	"sort"
)

// MergePolicy selects which periods take part in coalescing
type MergePolicy int

const (
	// MergeAnyGroupCount merges periods regardless of how many groups they carry
	MergeAnyGroupCount MergePolicy = iota
	// MergeSingleGroupOnly drops periods that do not carry exactly one group before merging
	MergeSingleGroupOnly
)

// ParseMergePolicy parses "any" or "single"
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch s {
	case "", "any":
		return MergeAnyGroupCount, nil
	case "single":
		return MergeSingleGroupOnly, nil
	default:
		return MergeAnyGroupCount, fmt.Errorf("unknown merge policy: %s (supported: any, single)", s)
	}
}

func (p MergePolicy) String() string {
	if p == MergeSingleGroupOnly {
		return "single"
	}
	return "any"
}

// Coalescer merges adjacent periods of identical class groups
type Coalescer struct {
	policy MergePolicy
}

// NewCoalescer creates a new Coalescer
func NewCoalescer(policy MergePolicy) *Coalescer {
	return &Coalescer{policy: policy}
}

// Coalesce returns the periods ordered by (group key, start) with touching periods of the
// same groups merged into one. The input slice is left untouched.
func (c *Coalescer) Coalesce(periods []Period) []Period {
	sorted := make([]Period, 0, len(periods))
	for _, p := range periods {
		if c.policy == MergeSingleGroupOnly && p.Groups.Len() != 1 {
			continue
		}
		sorted = append(sorted, p)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := sorted[i].Groups.Key(), sorted[j].Groups.Key()
		if ki != kj {
			return ki < kj
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var coalesced []Period
	for _, p := range sorted {
		if n := len(coalesced); n > 0 {
			last := &coalesced[n-1]
			if last.Groups.Equal(p.Groups) && last.End.Equal(p.Start) {
				last.End = p.End
				continue
			}
		}
		coalesced = append(coalesced, p)
	}

	return coalesced
}
