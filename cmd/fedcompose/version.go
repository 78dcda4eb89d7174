package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fedcompose/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fedcompose build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readOutputOptions(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if opts.format != "json" {
			fmt.Fprintln(out, version.Long())
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(version.Current())
	},
}
