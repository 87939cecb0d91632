package cmd

import (
	"fmt"

	"github.com/networkupstools/nut-hcl/internal/format"
	"github.com/networkupstools/nut-hcl/internal/query"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listFormat = format.FORMAT_LIST

// The `list` command prints the compatibility table, optionally filtered
// and sorted. Without flags the rows come out in authored order.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported devices",
	Long: "Prints the rows of the compatibility table that match the given filters.\n" +
		"Filters are case-insensitive substring matches.\n\n" +
		"Examples:\n" +
		"  nut-hcl list --vendor apc\n" +
		"  nut-hcl list --driver usbhid-ups --level 5 --sort model\n" +
		"  nut-hcl list --search megatec --format json",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParams()
		if err != nil {
			return err
		}
		records, err := loadRecords()
		if err != nil {
			return err
		}
		records, err = query.Apply(records, params)
		if err != nil {
			return err
		}
		log.Debug().Int("rows", len(records)).Msg("listing records")

		var f format.DataFormat
		if err := f.Set(viper.GetString("list.format")); err != nil {
			return fmt.Errorf("invalid --format: %w", err)
		}
		b, err := format.MarshalRecords(records, f)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func listParams() (query.Params, error) {
	p := query.Params{
		Filter: query.Filter{
			Vendor: viper.GetString("list.vendor"),
			Model:  viper.GetString("list.model"),
			Note:   viper.GetString("list.note"),
			Driver: viper.GetString("list.driver"),
			Search: viper.GetString("list.search"),
		},
		Descending: viper.GetBool("list.desc"),
		Offset:     viper.GetInt("list.offset"),
		Limit:      viper.GetInt("list.limit"),
	}
	for _, v := range viper.GetStringSlice("list.level") {
		var l hcl.SupportLevel
		if err := l.Set(v); err != nil {
			return p, fmt.Errorf("invalid --level %q: %w", v, err)
		}
		p.Filter.Levels = append(p.Filter.Levels, l)
	}
	column, err := query.ParseColumn(viper.GetString("list.sort"))
	if err != nil {
		return p, err
	}
	p.SortBy = column
	return p, nil
}

func init() {
	addFlag("list.vendor", listCmd, "vendor", "", "", "Only list rows whose vendor contains this text")
	addFlag("list.model", listCmd, "model", "m", "", "Only list rows whose model contains this text")
	addFlag("list.note", listCmd, "note", "n", "", "Only list rows whose note contains this text")
	addFlag("list.driver", listCmd, "driver", "d", "", "Only list rows whose driver contains this text")
	addFlag("list.search", listCmd, "search", "s", "", "Only list rows where any column contains this text")
	addFlag("list.level", listCmd, "level", "l", []string{}, "Only list rows with these support levels (repeatable)")
	addFlag("list.sort", listCmd, "sort", "", "", "Sort by column (level, vendor, model, note, driver)")
	addFlag("list.desc", listCmd, "desc", "", false, "Sort in descending order")
	addFlag("list.offset", listCmd, "offset", "", 0, "Skip this many rows")
	addFlag("list.limit", listCmd, "limit", "", 0, "Print at most this many rows (0 for all)")
	addFlag("list.format", listCmd, "format", "F", &listFormat, "Set the output format (list, json, yaml, js)")

	rootCmd.AddCommand(listCmd)
}
