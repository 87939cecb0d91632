package hcl_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUnmarshal(t *testing.T) {
	var r hcl.Record
	require.NoError(t, json.Unmarshal([]byte(`[1,"APC","Smart-UPS","","apcsmart"]`), &r))
	assert.Equal(t, hcl.SupportLevel(1), r.Level)
	assert.Equal(t, "APC", r.Vendor)
	assert.Equal(t, "Smart-UPS", r.Model)
	assert.Equal(t, "", r.Note)
	assert.Equal(t, "apcsmart", r.Driver)
}

func TestRecordDriverKeptVerbatim(t *testing.T) {
	tests := []struct {
		row    string
		driver string
	}{
		{`[3,"Cyber Power Systems","320AVR","","powerpanel or cyberpower"]`, "powerpanel or cyberpower"},
		{`[3,"AEC","MiniGuard UPS 700","Megatec M2501 cable","genericups upstype=21"]`, "genericups upstype=21"},
		{`[3,"Various","(various)","","megatec battvolts=9:13"]`, "megatec battvolts=9:13"},
	}
	for _, tt := range tests {
		var r hcl.Record
		require.NoError(t, json.Unmarshal([]byte(tt.row), &r))
		assert.Equal(t, tt.driver, r.Driver)

		b, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t, tt.row, string(b))
	}
}

func TestRecordMarshalKeepsHTMLCharacters(t *testing.T) {
	r := hcl.Record{Level: 3, Vendor: "Belkin", Model: "F6H375-USB", Note: "USB (<= 2005 models)", Driver: "usbhid-ups"}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `[3,"Belkin","F6H375-USB","USB (<= 2005 models)","usbhid-ups"]`, string(b))
}

func TestRecordUnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"object", `{"level":1}`},
		{"too few fields", `[1,"APC","Smart-UPS",""]`},
		{"too many fields", `[1,"APC","Smart-UPS","","apcsmart","extra"]`},
		{"level not a number", `["1","APC","Smart-UPS","","apcsmart"]`},
		{"fractional level", `[1.5,"APC","Smart-UPS","","apcsmart"]`},
		{"text field not a string", `[1,"APC",42,"","apcsmart"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r hcl.Record
			err := json.Unmarshal([]byte(tt.row), &r)
			require.Error(t, err)
			assert.ErrorIs(t, err, hcl.ErrMalformedRecord)
		})
	}
}

func TestRecordValidate(t *testing.T) {
	valid := hcl.Record{Level: 3, Vendor: "WTI", Model: "NPS", Driver: "powerman-pdu (experimental)"}
	assert.NoError(t, valid.Validate())

	r := valid
	r.Level = 0
	assert.Error(t, r.Validate())

	r = valid
	r.Level = 6
	assert.Error(t, r.Validate())

	r = valid
	r.Vendor = ""
	assert.Error(t, r.Validate())

	r = valid
	r.Driver = ""
	assert.Error(t, r.Validate())

	r = valid
	r.Model = ""
	assert.NoError(t, r.Validate(), "wildcard rows may leave the model empty")
}

func TestSupportLevelSet(t *testing.T) {
	var sl hcl.SupportLevel
	require.NoError(t, sl.Set("4"))
	assert.Equal(t, hcl.LevelProtocol, sl)
	assert.Equal(t, "4", sl.String())
	assert.Equal(t, "SupportLevel", sl.Type())

	assert.Error(t, sl.Set("0"))
	assert.Error(t, sl.Set("five"))
	assert.Equal(t, hcl.LevelProtocol, sl)
}

func TestKnownLevelsHaveLabels(t *testing.T) {
	for _, l := range hcl.KnownLevels() {
		assert.NotEmpty(t, l.Label())
	}
	assert.Empty(t, hcl.SupportLevel(9).Label())
}

func TestParseJSVariants(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"website file", "var UPSData =\n[\n  [1,\"APC\",\"Smart-UPS\",\"\",\"apcsmart\"]\n]"},
		{"trailing semicolon", "var UPSData = [[1,\"APC\",\"Smart-UPS\",\"\",\"apcsmart\"]];\n"},
		{"bare array", "[[1,\"APC\",\"Smart-UPS\",\"\",\"apcsmart\"]]"},
		{"byte order mark", "\xef\xbb\xbfvar UPSData = [[1,\"APC\",\"Smart-UPS\",\"\",\"apcsmart\"]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := hcl.ParseJS(strings.NewReader(tt.src))
			require.NoError(t, err)
			assert.Equal(t, []hcl.Record{{Level: 1, Vendor: "APC", Model: "Smart-UPS", Driver: "apcsmart"}}, records)
		})
	}
}

func TestParseJSErrors(t *testing.T) {
	for _, src := range []string{
		"",
		"var UPSData",
		"var UPSData = {}",
		"var UPSData = [[1,\"APC\"]]",
	} {
		_, err := hcl.ParseJS(strings.NewReader(src))
		assert.Errorf(t, err, "source %q", src)
	}
}
