package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/networkupstools/nut-hcl/internal/db/sqlite"
	"github.com/networkupstools/nut-hcl/internal/format"
	"github.com/networkupstools/nut-hcl/internal/lint"
	"github.com/networkupstools/nut-hcl/internal/util"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportFormat format.DataFormat

// The `export` command writes the table in one of the supported formats,
// usually to regenerate the website's ups_data.js.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the compatibility table to a file",
	Example: `  // regenerate the website data file
  nut-hcl export -o docs/website/scripts/ups_data.js --overwrite
  // write a SQLite copy for ad-hoc queries
  nut-hcl export -o hcl.db
  // print YAML to stdout
  nut-hcl export -F yaml -o -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output := viper.GetString("export.output")
		f := exportFormat
		if f == "" {
			f = format.DataFormatFromFileExt(output, format.DataFormat(viper.GetString("export.format")))
		}

		records, err := loadRecords()
		if err != nil {
			return err
		}
		if issues := lint.Check(records); lint.HasErrors(issues) {
			return fmt.Errorf("refusing to export a table with lint errors; run 'nut-hcl lint' for details")
		}
		return export(cmd.OutOrStdout(), records, f, output, viper.GetBool("export.overwrite"))
	},
}

func export(w io.Writer, records []hcl.Record, f format.DataFormat, output string, overwrite bool) error {
	if output == "-" {
		if f == format.FORMAT_DB {
			return fmt.Errorf("cannot write a database to stdout")
		}
		b, err := format.MarshalRecords(records, f)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	if err := util.MakeOutputDirectory(output, overwrite); err != nil {
		return err
	}
	if f == format.FORMAT_DB {
		if err := os.RemoveAll(output); err != nil {
			return fmt.Errorf("failed to replace database: %w", err)
		}
		if err := sqlite.InsertRecords(output, records...); err != nil {
			return err
		}
		if err := verifyDatabase(output, records); err != nil {
			return err
		}
	} else {
		b, err := format.MarshalRecords(records, f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, b, 0o644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
	}
	log.Info().Str("output", output).Str("format", f.String()).Int("rows", len(records)).Msg("exported table")
	return nil
}

// verifyDatabase reads back the per-level totals of a written database and
// compares them with the exported records.
func verifyDatabase(path string, records []hcl.Record) error {
	stored, err := sqlite.CountByLevel(path)
	if err != nil {
		return err
	}
	want := map[hcl.SupportLevel]int{}
	for _, r := range records {
		want[r.Level]++
	}
	for _, level := range hcl.KnownLevels() {
		if stored[level] != want[level] {
			return fmt.Errorf("database holds %d rows of level %s, expected %d", stored[level], level, want[level])
		}
	}
	log.Debug().Interface("levels", stored).Str("path", path).Msg("verified database")
	return nil
}

func init() {
	exportCmd.Flags().VarP(&exportFormat, "format", "F", "Set the output format (js, json, yaml, db); defaults to the output file extension")
	addFlag("export.output", exportCmd, "output", "o", "docs/website/scripts/ups_data.js", "Set the output path, or - for stdout")
	addFlag("export.overwrite", exportCmd, "overwrite", "", false, "Replace the output file if it exists")

	rootCmd.AddCommand(exportCmd)
}
