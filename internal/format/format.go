package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"gopkg.in/yaml.v3"
)

type DataFormat string

const (
	FORMAT_LIST DataFormat = "list"
	FORMAT_JSON DataFormat = "json"
	FORMAT_YAML DataFormat = "yaml"
	FORMAT_JS   DataFormat = "js"
	FORMAT_DB   DataFormat = "db"
)

func (df DataFormat) String() string {
	return string(df)
}

func (df *DataFormat) Set(v string) error {
	switch DataFormat(strings.ToLower(v)) {
	case FORMAT_LIST, FORMAT_JSON, FORMAT_YAML, FORMAT_JS, FORMAT_DB:
		*df = DataFormat(strings.ToLower(v))
		return nil
	default:
		return fmt.Errorf("must be one of %v", []DataFormat{
			FORMAT_LIST, FORMAT_JSON, FORMAT_YAML, FORMAT_JS, FORMAT_DB,
		})
	}
}

func (df DataFormat) Type() string {
	return "DataFormat"
}

// Marshal marshals arbitrary data into a byte slice formatted as outFormat.
// If a marshalling error occurs or outFormat is unknown, an error is returned.
//
// Supported values are: json, yaml
func Marshal(data interface{}, outFormat DataFormat) ([]byte, error) {
	switch outFormat {
	case FORMAT_JSON:
		if bytes, err := json.MarshalIndent(data, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to marshal data into JSON: %w", err)
		} else {
			return append(bytes, '\n'), nil
		}
	case FORMAT_YAML:
		if bytes, err := yaml.Marshal(data); err != nil {
			return nil, fmt.Errorf("failed to marshal data into YAML: %w", err)
		} else {
			return bytes, nil
		}
	case FORMAT_LIST, FORMAT_JS, FORMAT_DB:
		return nil, fmt.Errorf("this data format cannot be marshaled")
	default:
		return nil, fmt.Errorf("unknown data format: %s", outFormat)
	}
}

// MarshalRecords renders table rows. Unlike Marshal it supports the list
// and js formats, and json keeps one row per line.
//
// Supported values are: list, json, yaml, js
func MarshalRecords(records []hcl.Record, outFormat DataFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch outFormat {
	case FORMAT_LIST:
		headers := []string{"LEVEL", "VENDOR", "MODEL", "NOTE", "DRIVER"}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, r.Fields())
		}
		if err := writeList(&buf, headers, rows); err != nil {
			return nil, fmt.Errorf("failed to render list: %w", err)
		}
	case FORMAT_JSON:
		if err := hcl.EncodeJSON(&buf, records); err != nil {
			return nil, fmt.Errorf("failed to marshal data into JSON: %w", err)
		}
	case FORMAT_JS:
		if err := hcl.EncodeJS(&buf, records); err != nil {
			return nil, fmt.Errorf("failed to marshal data into JS: %w", err)
		}
	case FORMAT_YAML:
		return Marshal(records, outFormat)
	case FORMAT_DB:
		return nil, fmt.Errorf("this data format cannot be marshaled")
	default:
		return nil, fmt.Errorf("unknown data format: %s", outFormat)
	}
	return buf.Bytes(), nil
}

// UnmarshalRecords decodes table rows from json, yaml or js input.
func UnmarshalRecords(data []byte, inFormat DataFormat) ([]hcl.Record, error) {
	records := []hcl.Record{}
	switch inFormat {
	case FORMAT_JSON, FORMAT_JS:
		parsed, err := hcl.ParseJS(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal data from %s: %w", inFormat, err)
		}
		records = parsed
	case FORMAT_YAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data from YAML: %w", err)
		}
	case FORMAT_LIST, FORMAT_DB:
		return nil, fmt.Errorf("this data format cannot be unmarshaled")
	default:
		return nil, fmt.Errorf("unknown data format: %s", inFormat)
	}
	return records, nil
}

// writeList renders rows as an aligned plain text table.
func writeList(buf *bytes.Buffer, headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// List renders arbitrary rows with the same layout as the list format.
func List(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeList(&buf, headers, rows); err != nil {
		return nil, fmt.Errorf("failed to render list: %w", err)
	}
	return buf.Bytes(), nil
}

func DataFormatFromFileExt(path string, defaultFmt DataFormat) DataFormat {
	// Figure out the type of the contents (JSON, YAML, JS or a SQLite
	// export) based on the filename extension. The default format is
	// passed in, so if it doesn't match one of the cases, that's what
	// we will use.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FORMAT_JSON
	case ".yaml", ".yml":
		return FORMAT_YAML
	case ".js":
		return FORMAT_JS
	case ".db", ".sqlite", ".sqlite3":
		return FORMAT_DB
	}
	return defaultFmt
}
