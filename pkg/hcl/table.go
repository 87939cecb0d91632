// Package hcl holds the hardware compatibility list: every UPS and PDU model
// known to work with a driver, in the order maintainers authored it.
package hcl

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed data/ups_data.json
var upsData []byte

var (
	loadOnce sync.Once
	table    []Record
)

func load() {
	if err := json.Unmarshal(upsData, &table); err != nil {
		panic(fmt.Sprintf("hcl: failed to decode embedded table: %v", err))
	}
	for i, r := range table {
		if err := r.Validate(); err != nil {
			panic(fmt.Sprintf("hcl: row %d: %v", i, err))
		}
	}
}

// Records returns the full table in authored order. The slice is a copy and
// may be modified freely by the caller.
func Records() []Record {
	loadOnce.Do(load)
	out := make([]Record, len(table))
	copy(out, table)
	return out
}

// Len returns the number of authored rows.
func Len() int {
	loadOnce.Do(load)
	return len(table)
}
