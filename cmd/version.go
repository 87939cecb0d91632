package cmd

import (
	"fmt"

	"github.com/networkupstools/nut-hcl/internal/format"
	"github.com/networkupstools/nut-hcl/internal/version"
	"github.com/spf13/cobra"
)

var versionFormat = format.FORMAT_LIST

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("rev").Value.String() == "true" {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().GitCommit)
			return nil
		}
		if versionFormat == format.FORMAT_LIST {
			version.PrintVersionInfo(cmd.OutOrStdout())
			return nil
		}
		b, err := format.Marshal(version.Get(), versionFormat)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	versionCmd.Flags().Bool("rev", false, "show the version commit")
	versionCmd.Flags().VarP(&versionFormat, "format", "F", "Set the output format (list, json, yaml)")
	rootCmd.AddCommand(versionCmd)
}

// SetVersionInfo records build information passed to the main package via
// -ldflags. Empty values leave the internal/version variables untouched.
func SetVersionInfo(v, commit, date string) {
	if v != "" {
		version.Version = v
	}
	if commit != "" {
		version.GitCommit = commit
	}
	if date != "" {
		version.BuildTime = date
	}
}
