package hcl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSVariable is the global the website scripts read the table from.
const JSVariable = "UPSData"

// StripJS removes the `var UPSData =` assignment and trailing semicolon
// around the table literal, leaving the bare JSON array. Input that already
// starts with '[' is returned trimmed.
func StripJS(src []byte) ([]byte, error) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	src = bytes.TrimSpace(src)
	if !bytes.HasPrefix(src, []byte("[")) {
		eq := bytes.IndexByte(src, '=')
		if eq < 0 {
			return nil, fmt.Errorf("no table assignment found")
		}
		src = bytes.TrimSpace(src[eq+1:])
	}
	src = bytes.TrimSpace(bytes.TrimSuffix(src, []byte(";")))
	if !bytes.HasPrefix(src, []byte("[")) || !bytes.HasSuffix(src, []byte("]")) {
		return nil, fmt.Errorf("table literal must be an array")
	}
	return src, nil
}

// ParseJS reads a website data file (or a bare JSON array) and returns its
// records in file order.
func ParseJS(r io.Reader) ([]Record, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	body, err := StripJS(src)
	if err != nil {
		return nil, err
	}
	records := []Record{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}
	return records, nil
}

// EncodeJS writes records as a website data file, one row per line.
func EncodeJS(w io.Writer, records []Record) error {
	if _, err := fmt.Fprintf(w, "var %s =\n", JSVariable); err != nil {
		return err
	}
	return EncodeJSON(w, records)
}

// EncodeJSON writes records as a bare JSON array with one row per line, the
// layout maintainers edit by hand.
func EncodeJSON(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[\n")
	for i, r := range records {
		b, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		bw.WriteString("  ")
		bw.Write(b)
		if i < len(records)-1 {
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}
	bw.WriteString("]\n")
	return bw.Flush()
}
