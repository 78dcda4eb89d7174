package main

import (
	"github.com/spf13/cobra"

	"fedcompose/internal/diag"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [schema.graphql...]",
	Short: "Validate subgraph schemas without composing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		useCache, _ := cmd.Flags().GetBool("cache")

		out, err := readOutputOptions(cmd)
		if err != nil {
			return err
		}
		in, err := loadInputs(args, inputOptions{configPath: configPath})
		if err != nil {
			return err
		}
		orch, err := newOrchestrator(cmd, useCache)
		if err != nil {
			return err
		}

		issues := orch.ValidateSubgraphs(cmd.Context(), in.subgraphs)
		if err := printIssues(cmd.OutOrStdout(), cmd.ErrOrStderr(), issues, in.files, out); err != nil {
			return err
		}
		bag := diag.NewBag()
		bag.AddAll(issues)
		if bag.HasErrors() {
			return errIssuesReported
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("config", "", "path to supergraph.toml (default: search upwards from cwd)")
	validateCmd.Flags().Bool("cache", false, "reuse validation results from the disk cache")
}
