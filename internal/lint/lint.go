// Package lint checks authored compatibility data for structural defects
// before it is published. Findings are reported per row so a maintainer can
// fix all of them in one pass.
package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"golang.org/x/exp/slices"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding. Row is the zero-based index of the row in the
// authored table, or -1 when the finding concerns the whole file.
type Issue struct {
	Row      int      `json:"row" yaml:"row"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Row < 0 {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", i.Row, i.Severity, i.Message)
}

// Check validates already decoded records.
func Check(records []hcl.Record) []Issue {
	return check(records, nil, len(records))
}

// check validates records; rows maps each record to its position in the
// source file, nil meaning records are already in file order. total is the
// number of rows in the source, including ones that failed to decode.
func check(records []hcl.Record, rows []int, total int) []Issue {
	var (
		issues = []Issue{}
		seen   = make(map[hcl.Record]int, len(records))
	)
	if total == 0 {
		issues = append(issues, Issue{Row: -1, Severity: SeverityError, Message: "table is empty"})
	}
	pos := func(i int) int {
		if rows == nil {
			return i
		}
		return rows[i]
	}
	for i, r := range records {
		issues = append(issues, checkRecord(pos(i), r)...)
		if first, ok := seen[r]; ok {
			issues = append(issues, Issue{
				Row:      pos(i),
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("duplicate of row %d", first),
			})
			continue
		}
		seen[r] = pos(i)
	}
	return issues
}

// CheckRaw validates a website data file or bare JSON array. Rows are decoded
// one at a time so a malformed row is reported without hiding the rest.
// The returned error is only set when the file itself cannot be read as an
// array of rows.
func CheckRaw(src []byte) ([]Issue, error) {
	body, err := hcl.StripJS(src)
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}

	var (
		issues  = []Issue{}
		records = make([]hcl.Record, 0, len(rows))
		index   = make([]int, 0, len(rows))
	)
	for i, raw := range rows {
		var r hcl.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			issues = append(issues, Issue{Row: i, Severity: SeverityError, Message: err.Error()})
			continue
		}
		records = append(records, r)
		index = append(index, i)
	}

	issues = append(issues, check(records, index, len(rows))...)
	sortByRow(issues)
	return issues, nil
}

// HasErrors reports whether any issue is an error rather than a warning.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func checkRecord(row int, r hcl.Record) []Issue {
	issues := []Issue{}
	if !r.Level.Valid() {
		issues = append(issues, Issue{
			Row:      row,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unknown support level %d (must be one of %v)", r.Level, hcl.KnownLevels()),
		})
	}
	if strings.TrimSpace(r.Vendor) == "" {
		issues = append(issues, Issue{Row: row, Severity: SeverityError, Message: "vendor is empty"})
	}
	if strings.TrimSpace(r.Driver) == "" {
		issues = append(issues, Issue{Row: row, Severity: SeverityError, Message: "driver is empty"})
	}

	names := [4]string{"vendor", "model", "note", "driver"}
	for i, v := range [4]string{r.Vendor, r.Model, r.Note, r.Driver} {
		if v != "" && v != strings.TrimSpace(v) {
			issues = append(issues, Issue{
				Row:      row,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s has leading or trailing whitespace", names[i]),
			})
		}
	}
	return issues
}

func sortByRow(issues []Issue) {
	slices.SortStableFunc(issues, func(a, b Issue) int {
		return a.Row - b.Row
	})
}
