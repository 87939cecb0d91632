package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/networkupstools/nut-hcl/internal/db/sqlite"
	"github.com/networkupstools/nut-hcl/internal/format"
	"github.com/networkupstools/nut-hcl/internal/lint"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var lintFormat = format.FORMAT_LIST

// The `lint` command checks a data file for rows that would break the
// website table: malformed rows, unknown support levels and empty vendor or
// driver cells. Exits non-zero when any error is found.
var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Check a compatibility table for authoring mistakes",
	Example: `  // check the built-in table
  nut-hcl lint
  // check the website data file before committing it
  nut-hcl lint docs/website/scripts/ups_data.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			issues []lint.Issue
			err    error
		)
		if len(args) == 0 {
			var records []hcl.Record
			records, err = loadRecords()
			if err != nil {
				return err
			}
			issues = lint.Check(records)
		} else {
			issues, err = lintFile(args[0])
			if err != nil {
				return err
			}
		}

		if err := printIssues(cmd.OutOrStdout(), issues); err != nil {
			return err
		}

		if lint.HasErrors(issues) {
			errCount := 0
			for _, i := range issues {
				if i.Severity == lint.SeverityError {
					errCount++
				}
			}
			log.Error().Int("errors", errCount).Int("warnings", len(issues)-errCount).Msg("lint found errors")
			return fmt.Errorf("lint failed")
		}
		log.Info().Int("warnings", len(issues)).Msg("lint passed")
		return nil
	},
}

func lintFile(path string) ([]lint.Issue, error) {
	switch format.DataFormatFromFileExt(path, format.FORMAT_JS) {
	case format.FORMAT_DB:
		records, err := sqlite.GetRecords(path)
		if err != nil {
			return nil, err
		}
		return lint.Check(records), nil
	case format.FORMAT_YAML:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		records, err := format.UnmarshalRecords(b, format.FORMAT_YAML)
		if err != nil {
			return nil, err
		}
		return lint.Check(records), nil
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return lint.CheckRaw(b)
	}
}

func printIssues(w io.Writer, issues []lint.Issue) error {
	var (
		b   []byte
		err error
	)
	switch lintFormat {
	case format.FORMAT_LIST:
		if len(issues) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(issues))
		for _, i := range issues {
			row := "-"
			if i.Row >= 0 {
				row = strconv.Itoa(i.Row)
			}
			rows = append(rows, []string{row, string(i.Severity), i.Message})
		}
		b, err = format.List([]string{"ROW", "SEVERITY", "MESSAGE"}, rows)
	case format.FORMAT_JSON, format.FORMAT_YAML:
		b, err = format.Marshal(issues, lintFormat)
	default:
		err = fmt.Errorf("format %s is not supported for lint", lintFormat)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func init() {
	lintCmd.Flags().VarP(&lintFormat, "format", "F", "Set the output format (list, json, yaml)")
	rootCmd.AddCommand(lintCmd)
}
