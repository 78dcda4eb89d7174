package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"fedcompose/internal/connect"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <supergraph.graphql>",
	Short: "Expand connectors in a composed supergraph",
	Long: `Expand rewrites every @connect field of a supergraph into a synthetic
subgraph and prints the resulting SDL. "-" reads the supergraph from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Root().PersistentFlags().GetString("format")

		sdl, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		outcome, err := connect.Expand(sdl)
		if err != nil {
			return err
		}

		var payload expandPayload
		switch o := outcome.(type) {
		case connect.Expanded:
			payload = expandPayload{SupergraphSDL: o.RawSDL, ByServiceName: o.ByServiceName, Expanded: true}
		case connect.Unchanged:
			payload = expandPayload{SupergraphSDL: sdl, ByServiceName: map[string]string{}}
		}

		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}
		if _, err := io.WriteString(cmd.OutOrStdout(), payload.SupergraphSDL); err != nil {
			return err
		}
		printMapping(cmd.ErrOrStderr(), payload)
		return nil
	},
}

type expandPayload struct {
	SupergraphSDL string            `json:"supergraphSdl"`
	ByServiceName map[string]string `json:"byServiceName"`
	Expanded      bool              `json:"expanded"`
}

func printMapping(w io.Writer, p expandPayload) {
	if !p.Expanded {
		fmt.Fprintln(w, "no connectors found; supergraph unchanged")
		return
	}
	names := make([]string, 0, len(p.ByServiceName))
	for name := range p.ByServiceName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s -> %s\n", name, p.ByServiceName[name])
	}
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
