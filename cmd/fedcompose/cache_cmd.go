package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fedcompose/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the validation cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := cache.OpenDiskCache("fedcompose")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dc.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached validation result",
	RunE: func(cmd *cobra.Command, args []string) error {
		dc, err := cache.OpenDiskCache("fedcompose")
		if err != nil {
			return err
		}
		return dc.DropAll()
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd, cacheCleanCmd)
}
