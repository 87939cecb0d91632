package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/networkupstools/nut-hcl/internal/db/sqlite"
	"github.com/networkupstools/nut-hcl/internal/diff"
	"github.com/networkupstools/nut-hcl/internal/format"
	urlx "github.com/networkupstools/nut-hcl/internal/url"
	"github.com/networkupstools/nut-hcl/pkg/client"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var diffFormat = format.FORMAT_LIST

// The `diff` command compares the table against a published copy, for
// example the website's ups_data.js, and exits non-zero when they differ.
var diffCmd = &cobra.Command{
	Use:   "diff <file|url>",
	Short: "Compare the table with another copy",
	Example: `  nut-hcl diff docs/website/scripts/ups_data.js
  nut-hcl diff https://networkupstools.org/stable-hcl/scripts/ups_data.js`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(viper.GetInt("diff.timeout"))*time.Second)
		defer cancel()
		other, err := readSource(ctx, args[0])
		if err != nil {
			return err
		}

		res := diff.Compare(records, other)
		if err := printDiff(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if !res.Equal() {
			log.Info().
				Int("removed", len(res.Removed)).
				Int("added", len(res.Added)).
				Bool("reordered", res.Reordered).
				Msg("tables differ")
			return fmt.Errorf("tables differ")
		}
		return nil
	},
}

// readSource loads a table from a local file or an http(s) URL.
func readSource(ctx context.Context, source string) ([]hcl.Record, error) {
	f := format.DataFormatFromFileExt(source, format.FORMAT_JS)
	if !urlx.IsRemote(source) {
		if f == format.FORMAT_DB {
			return sqlite.GetRecords(source)
		}
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read table: %w", err)
		}
		return format.UnmarshalRecords(b, f)
	}

	uri, err := urlx.Sanitize(source)
	if err != nil {
		return nil, err
	}
	if f == format.FORMAT_DB {
		return nil, fmt.Errorf("cannot read a database over HTTP")
	}
	log.Debug().Str("url", uri).Msg("fetching table")
	b, err := client.FetchTable(ctx, &http.Client{}, uri)
	if err != nil {
		return nil, err
	}
	return format.UnmarshalRecords(b, f)
}

func printDiff(w io.Writer, res diff.Result) error {
	var (
		b   []byte
		err error
	)
	switch diffFormat {
	case format.FORMAT_LIST:
		rows := [][]string{}
		for _, c := range res.Removed {
			rows = append(rows, append([]string{"-", strconv.Itoa(c.Row)}, c.Record.Fields()...))
		}
		for _, c := range res.Added {
			rows = append(rows, append([]string{"+", strconv.Itoa(c.Row)}, c.Record.Fields()...))
		}
		if len(rows) > 0 {
			b, err = format.List([]string{"", "ROW", "LEVEL", "VENDOR", "MODEL", "NOTE", "DRIVER"}, rows)
		}
		if err == nil && res.Reordered {
			b = append(b, []byte("rows shared by both tables are in a different order\n")...)
		}
	case format.FORMAT_JSON, format.FORMAT_YAML:
		b, err = format.Marshal(res, diffFormat)
	default:
		err = fmt.Errorf("format %s is not supported for diff", diffFormat)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func init() {
	diffCmd.Flags().VarP(&diffFormat, "format", "F", "Set the output format (list, json, yaml)")
	addFlag("diff.timeout", diffCmd, "timeout", "t", 30, "Set the timeout in seconds for fetching a URL")
	rootCmd.AddCommand(diffCmd)
}
