// Package query implements the filtering, sorting and paging used by the
// `list` command and the daemon. All operations keep the authored row order
// unless a sort column is requested.
package query

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"golang.org/x/exp/slices"
)

type Column string

const (
	ColumnNone   Column = ""
	ColumnLevel  Column = "level"
	ColumnVendor Column = "vendor"
	ColumnModel  Column = "model"
	ColumnNote   Column = "note"
	ColumnDriver Column = "driver"
)

var Columns = []Column{ColumnLevel, ColumnVendor, ColumnModel, ColumnNote, ColumnDriver}

func ParseColumn(v string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(v)))
	if c == ColumnNone || slices.Contains(Columns, c) {
		return c, nil
	}
	return ColumnNone, fmt.Errorf("unknown sort column %q (options: %v)", v, Columns)
}

// Filter selects records by case-insensitive substring matches. Empty fields
// match everything; Search matches any of the text columns.
type Filter struct {
	Vendor string
	Model  string
	Note   string
	Driver string
	Search string
	Levels []hcl.SupportLevel
}

func (f Filter) Match(r hcl.Record) bool {
	if len(f.Levels) > 0 && !slices.Contains(f.Levels, r.Level) {
		return false
	}
	if !contains(r.Vendor, f.Vendor) || !contains(r.Model, f.Model) ||
		!contains(r.Note, f.Note) || !contains(r.Driver, f.Driver) {
		return false
	}
	if f.Search != "" {
		return slices.ContainsFunc([]string{r.Vendor, r.Model, r.Note, r.Driver}, func(s string) bool {
			return contains(s, f.Search)
		})
	}
	return true
}

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Select returns the records matching f, in input order.
func Select(records []hcl.Record, f Filter) []hcl.Record {
	out := make([]hcl.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records in place by column. Ties keep their relative order,
// so sorting by vendor still lists each vendor's rows as authored.
func Sort(records []hcl.Record, column Column, descending bool) error {
	var key func(a, b hcl.Record) int
	switch column {
	case ColumnNone:
		if descending {
			slices.Reverse(records)
		}
		return nil
	case ColumnLevel:
		key = func(a, b hcl.Record) int { return int(a.Level) - int(b.Level) }
	case ColumnVendor:
		key = func(a, b hcl.Record) int { return compareFold(a.Vendor, b.Vendor) }
	case ColumnModel:
		key = func(a, b hcl.Record) int { return compareFold(a.Model, b.Model) }
	case ColumnNote:
		key = func(a, b hcl.Record) int { return compareFold(a.Note, b.Note) }
	case ColumnDriver:
		key = func(a, b hcl.Record) int { return compareFold(a.Driver, b.Driver) }
	default:
		return fmt.Errorf("unknown sort column %q (options: %v)", column, Columns)
	}
	if descending {
		asc := key
		key = func(a, b hcl.Record) int { return asc(b, a) }
	}
	slices.SortStableFunc(records, key)
	return nil
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Params groups everything a caller can ask of the table in one request.
type Params struct {
	Filter     Filter
	SortBy     Column
	Descending bool
	Offset     int
	Limit      int // zero or less means no limit
}

// Apply filters, sorts and pages records. The input slice is not modified.
func Apply(records []hcl.Record, p Params) ([]hcl.Record, error) {
	out := Select(records, p.Filter)
	if err := Sort(out, p.SortBy, p.Descending); err != nil {
		return nil, err
	}
	return Page(out, p.Offset, p.Limit), nil
}

// Page returns the window [offset, offset+limit) of records, clamped to the
// bounds of the slice.
func Page(records []hcl.Record, offset, limit int) []hcl.Record {
	offset = mathutil.Clamp(offset, 0, len(records))
	end := len(records)
	if limit > 0 {
		end = offset + mathutil.Clamp(limit, 0, len(records)-offset)
	}
	return records[offset:end]
}

// VendorSummary describes how many rows a vendor has and which drivers
// cover them.
type VendorSummary struct {
	Vendor  string   `json:"vendor" yaml:"vendor"`
	Count   int      `json:"count" yaml:"count"`
	Drivers []string `json:"drivers" yaml:"drivers"`
}

// Vendors summarizes records per vendor, in the order vendors first appear.
// Drivers are listed verbatim in first-seen order.
func Vendors(records []hcl.Record) []VendorSummary {
	var (
		summaries = []VendorSummary{}
		index     = map[string]int{}
	)
	for _, r := range records {
		i, ok := index[r.Vendor]
		if !ok {
			i = len(summaries)
			index[r.Vendor] = i
			summaries = append(summaries, VendorSummary{Vendor: r.Vendor, Drivers: []string{}})
		}
		s := &summaries[i]
		s.Count++
		if !slices.Contains(s.Drivers, r.Driver) {
			s.Drivers = append(s.Drivers, r.Driver)
		}
	}
	return summaries
}
