package hcl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord is returned when a row does not have the expected
// shape of five elements with an integer level followed by four strings.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one row of the compatibility table.
//
// On the wire a record is a 5-element array in field order:
//
//	[1,"APC","Smart-UPS","","apcsmart"]
//
// Driver is kept verbatim. It may name alternatives ("powerpanel or
// cyberpower") or carry options ("genericups upstype=21").
type Record struct {
	Level  SupportLevel `json:"level" yaml:"level" db:"level"`
	Vendor string       `json:"vendor" yaml:"vendor" db:"vendor"`
	Model  string       `json:"model" yaml:"model" db:"model"`
	Note   string       `json:"note" yaml:"note" db:"note"`
	Driver string       `json:"driver" yaml:"driver" db:"driver"`
}

// Validate checks the invariants every authored row must hold.
func (r Record) Validate() error {
	if !r.Level.Valid() {
		return fmt.Errorf("unknown support level %d (must be one of %v)", r.Level, KnownLevels())
	}
	if r.Vendor == "" {
		return fmt.Errorf("vendor is empty")
	}
	if r.Driver == "" {
		return fmt.Errorf("driver is empty")
	}
	return nil
}

// Fields returns the text cells in table order.
func (r Record) Fields() []string {
	return []string{r.Level.String(), r.Vendor, r.Model, r.Note, r.Driver}
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode([]any{int(r.Level), r.Vendor, r.Model, r.Note, r.Driver})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(b, &cells); err != nil {
		return fmt.Errorf("%w: expected an array: %v", ErrMalformedRecord, err)
	}
	if len(cells) != 5 {
		return fmt.Errorf("%w: expected 5 fields, got %d", ErrMalformedRecord, len(cells))
	}

	var (
		level int
		text  [4]string
	)
	if err := json.Unmarshal(cells[0], &level); err != nil {
		return fmt.Errorf("%w: support level must be an integer: %s", ErrMalformedRecord, cells[0])
	}
	for i := range text {
		if err := json.Unmarshal(cells[i+1], &text[i]); err != nil {
			return fmt.Errorf("%w: field %d must be a string: %s", ErrMalformedRecord, i+1, cells[i+1])
		}
	}

	*r = Record{
		Level:  SupportLevel(level),
		Vendor: text[0],
		Model:  text[1],
		Note:   text[2],
		Driver: text[3],
	}
	return nil
}
