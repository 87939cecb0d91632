// Package diff compares two copies of the compatibility table, typically the
// built-in one and the copy currently published on the website.
package diff

import (
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"golang.org/x/exp/slices"
)

type Change struct {
	Row    int        `json:"row" yaml:"row"`
	Record hcl.Record `json:"record" yaml:"record"`
}

type Result struct {
	// Removed rows exist in the first table only; Row is their old position.
	Removed []Change `json:"removed" yaml:"removed"`
	// Added rows exist in the second table only; Row is their new position.
	Added []Change `json:"added" yaml:"added"`
	// Reordered is set when the rows both tables share appear in a
	// different order.
	Reordered bool `json:"reordered" yaml:"reordered"`
}

func (r Result) Equal() bool {
	return len(r.Removed) == 0 && len(r.Added) == 0 && !r.Reordered
}

// Compare matches identical rows between from and to. Duplicated rows are
// matched one to one, so a row authored twice in from and once in to is
// reported as one removal. Among several copies the first one after the
// previous match wins, so inserting a copy ahead of a row is an addition
// and not a reorder.
func Compare(from, to []hcl.Record) Result {
	res := Result{Removed: []Change{}, Added: []Change{}}

	pending := map[hcl.Record][]int{}
	for i, r := range to {
		pending[r] = append(pending[r], i)
	}

	matched := make([]bool, len(to))
	last := -1
	for i, r := range from {
		positions := pending[r]
		if len(positions) == 0 {
			res.Removed = append(res.Removed, Change{Row: i, Record: r})
			continue
		}
		k := slices.IndexFunc(positions, func(j int) bool { return j > last })
		if k < 0 {
			k = 0
		}
		j := positions[k]
		pending[r] = slices.Delete(positions, k, k+1)
		matched[j] = true
		if j < last {
			res.Reordered = true
		}
		last = j
	}
	for j, r := range to {
		if !matched[j] {
			res.Added = append(res.Added, Change{Row: j, Record: r})
		}
	}
	return res
}
