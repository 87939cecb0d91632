package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/networkupstools/nut-hcl/internal/format"
	"github.com/networkupstools/nut-hcl/internal/query"
	"github.com/spf13/cobra"
)

var vendorsFormat = format.FORMAT_LIST

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Summarize supported devices per vendor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}
		summaries := query.Vendors(records)

		var b []byte
		switch vendorsFormat {
		case format.FORMAT_LIST:
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.Vendor, strconv.Itoa(s.Count), strings.Join(s.Drivers, ", ")})
			}
			b, err = format.List([]string{"VENDOR", "ROWS", "DRIVERS"}, rows)
		case format.FORMAT_JSON, format.FORMAT_YAML:
			b, err = format.Marshal(summaries, vendorsFormat)
		default:
			err = fmt.Errorf("format %s is not supported for vendors", vendorsFormat)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	vendorsCmd.Flags().VarP(&vendorsFormat, "format", "F", "Set the output format (list, json, yaml)")
	rootCmd.AddCommand(vendorsCmd)
}
