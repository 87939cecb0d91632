package hcl_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Guards against accidental truncation of the authored table.
func TestRecordsRowCount(t *testing.T) {
	assert.Equal(t, 552, hcl.Len())
	assert.Len(t, hcl.Records(), 552)
}

func TestRecordsInvariants(t *testing.T) {
	for i, r := range hcl.Records() {
		assert.Truef(t, r.Level.Valid(), "row %d: unknown support level %d", i, r.Level)
		assert.NotEmptyf(t, r.Vendor, "row %d: empty vendor", i)
		assert.NotEmptyf(t, r.Driver, "row %d: empty driver", i)
	}
}

func TestRecordsAuthoredOrder(t *testing.T) {
	records := hcl.Records()
	assert.Equal(t, hcl.Record{Level: 3, Vendor: "Ablerex", Model: "MS-RT", Note: "", Driver: "megatec"}, records[0])
	assert.Equal(t, hcl.Record{Level: 1, Vendor: "APC", Model: "Smart-UPS", Note: "", Driver: "apcsmart"}, records[10])
	assert.Equal(t, hcl.Record{Level: 3, Vendor: "WTI", Model: "NPS", Note: "8 outlets", Driver: "powerman-pdu (experimental)"}, records[len(records)-1])
}

func TestRecordsObservedLevels(t *testing.T) {
	counts := map[hcl.SupportLevel]int{}
	for _, r := range hcl.Records() {
		counts[r.Level]++
	}
	assert.Equal(t, map[hcl.SupportLevel]int{1: 20, 3: 379, 4: 123, 5: 30}, counts)
}

func TestRecordsReturnsCopy(t *testing.T) {
	first := hcl.Records()
	first[0].Vendor = "changed"
	assert.Equal(t, "Ablerex", hcl.Records()[0].Vendor)
}

func TestRecordsPreserveText(t *testing.T) {
	var found []hcl.Record
	for _, r := range hcl.Records() {
		if r.Vendor == "Gamatronic" && strings.HasPrefix(r.Model, "µPS") {
			found = append(found, r)
		}
		if r.Vendor == "Meta System" && r.Model == "HF Line /2" {
			found = append(found, r)
		}
	}
	assert.Len(t, found, 2)
}

func TestRoundTripJSON(t *testing.T) {
	records := hcl.Records()
	b, err := json.Marshal(records)
	require.NoError(t, err)

	var decoded []hcl.Record
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, records, decoded)
}

func TestRoundTripJS(t *testing.T) {
	records := hcl.Records()
	var buf bytes.Buffer
	require.NoError(t, hcl.EncodeJS(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), "var UPSData =\n[\n  [3,\"Ablerex\",\"MS-RT\",\"\",\"megatec\"],\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "[3,\"WTI\",\"NPS\",\"8 outlets\",\"powerman-pdu (experimental)\"]\n]\n"))

	decoded, err := hcl.ParseJS(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

// The canonical layout written by EncodeJSON is the layout of the authored
// file, so regenerating it produces no diff.
func TestEncodeJSONMatchesAuthoredFile(t *testing.T) {
	authored, err := os.ReadFile("data/ups_data.json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, hcl.EncodeJSON(&buf, hcl.Records()))
	assert.Equal(t, string(authored), buf.String())
}
