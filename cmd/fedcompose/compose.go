package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fedcompose/internal/cache"
	"fedcompose/internal/compose"
	"fedcompose/internal/diag"
	"fedcompose/internal/host"
)

var composeCmd = &cobra.Command{
	Use:   "compose [flags] [schema.graphql...]",
	Short: "Compose subgraphs into a supergraph",
	Long: `Compose validates every subgraph, asks the engine to compose them, expands
connectors and runs the satisfiability check. Without schema files the
subgraphs are read from supergraph.toml.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().String("config", "", "path to supergraph.toml (default: search upwards from cwd)")
	composeCmd.Flags().StringP("out", "o", "", "write the supergraph here instead of stdout")
	composeCmd.Flags().String("engine", "", "composition engine command (overrides [engine].command)")
	composeCmd.Flags().StringArray("engine-arg", nil, "argument passed to the engine (repeatable)")
	composeCmd.Flags().Duration("timeout", 0, "limit for a single engine call (default 2m)")
	composeCmd.Flags().StringArray("routing-url", nil, "routing URL as name=url (repeatable)")
	composeCmd.Flags().Bool("cache", false, "reuse validation results from the disk cache")
}

func runCompose(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	outPath, _ := cmd.Flags().GetString("out")
	routingURLs, _ := cmd.Flags().GetStringArray("routing-url")
	useCache, _ := cmd.Flags().GetBool("cache")

	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	in, err := loadInputs(args, inputOptions{configPath: configPath, routingURLs: routingURLs})
	if err != nil {
		return err
	}
	engineCfg, err := resolveEngine(cmd, in.manifest)
	if err != nil {
		return err
	}
	if outPath == "" && in.manifest != nil && in.manifest.Config.Supergraph.Out != "" {
		outPath = in.manifest.Config.Supergraph.Out
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(in.manifest.Root, filepath.FromSlash(outPath))
		}
	}

	orch, err := newOrchestrator(cmd, useCache)
	if err != nil {
		return err
	}
	h := host.NewProcessHost(engineCfg, diag.NewBag())

	uiFlag, _ := cmd.Root().PersistentFlags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var report compose.Report
	if shouldUseTUI(mode) && out.format != "json" {
		report, err = runComposeWithUI(cmd.Context(), "composing supergraph", orch, h, in.subgraphs)
		if err != nil {
			return fmt.Errorf("progress UI: %w", err)
		}
	} else {
		report = orch.Compose(cmd.Context(), h, in.subgraphs)
	}

	result := h.Result()
	if err := printIssues(cmd.OutOrStdout(), cmd.ErrOrStderr(), result.Issues, in.files, out); err != nil {
		return err
	}
	if showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings"); showTimings && report.Timing != nil {
		fmt.Fprint(cmd.ErrOrStderr(), report.Timing.String())
	}

	if report.Terminal != compose.TerminalCompleted {
		return errIssuesReported
	}
	// ошибки satisfiability не отменяют запись супер-графа
	if err := writeSupergraph(cmd, outPath, result.SupergraphSDL, out.format == "json"); err != nil {
		return err
	}
	if result.HasErrors() {
		return errIssuesReported
	}
	return nil
}

func writeSupergraph(cmd *cobra.Command, path, sdl string, stdoutTaken bool) error {
	if !strings.HasSuffix(sdl, "\n") {
		sdl += "\n"
	}
	if path == "" || path == "-" {
		if stdoutTaken {
			return errors.New("--format json writes issues to stdout; pass --out for the supergraph")
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), sdl)
		return err
	}
	if err := os.WriteFile(path, []byte(sdl), 0o600); err != nil {
		return fmt.Errorf("write supergraph: %w", err)
	}
	return nil
}

func resolveEngine(cmd *cobra.Command, manifest *projectManifest) (host.Config, error) {
	var cfg host.Config
	if manifest != nil {
		cfg.Command = manifest.Config.Engine.Command
		cfg.Args = append([]string(nil), manifest.Config.Engine.Args...)
		cfg.Timeout = manifest.timeout()
	}
	if command, _ := cmd.Flags().GetString("engine"); command != "" {
		cfg.Command = command
		cfg.Args = nil
	}
	if cmd.Flags().Changed("engine-arg") {
		cfg.Args, _ = cmd.Flags().GetStringArray("engine-arg")
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}
	if cfg.Command == "" {
		if env := os.Getenv("FEDCOMPOSE_ENGINE"); env != "" {
			cfg.Command = env
		}
	}
	if cfg.Command == "" {
		return host.Config{}, errors.New("no composition engine: set [engine].command, --engine or FEDCOMPOSE_ENGINE")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = host.DefaultTimeout
	}
	return cfg, nil
}

func newOrchestrator(cmd *cobra.Command, useCache bool) (*compose.Orchestrator, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	orch := compose.NewOrchestrator()
	orch.Jobs = jobs
	if useCache {
		dc, err := cache.OpenDiskCache("fedcompose")
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		orch.Cache = dc
	}
	return orch, nil
}
