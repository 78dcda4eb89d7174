package main

import (
	"errors"
	"fmt"
	"strings"

	"fedcompose/internal/engine"
	"fedcompose/internal/source"
)

type inputs struct {
	subgraphs []engine.SubgraphDefinition
	files     *source.FileSet
	manifest  *projectManifest
}

type inputOptions struct {
	configPath  string
	routingURLs []string // name=url
}

// loadInputs reads subgraphs from explicit schema files or, when none are
// given, from supergraph.toml.
func loadInputs(paths []string, opts inputOptions) (*inputs, error) {
	urls, err := parseRoutingURLs(opts.routingURLs)
	if err != nil {
		return nil, err
	}

	var entries []manifestSubgraph
	var manifest *projectManifest
	switch {
	case len(paths) > 0:
		for _, p := range paths {
			entries = append(entries, manifestSubgraph{
				Name:       normalizeName(source.SubgraphName(p)),
				SchemaPath: p,
			})
		}
	case opts.configPath != "":
		manifest, err = readProjectManifest(opts.configPath)
		if err != nil {
			return nil, err
		}
	default:
		var ok bool
		manifest, ok, err = loadProjectManifest(".")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(noManifestMessage)
		}
	}
	if manifest != nil {
		if entries, err = manifest.subgraphs(); err != nil {
			return nil, err
		}
	}

	in := &inputs{files: source.NewFileSet(), manifest: manifest}
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%s: cannot derive a subgraph name", e.SchemaPath)
		}
		if prev, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("subgraph %q is defined by both %s and %s", e.Name, prev, e.SchemaPath)
		}
		seen[e.Name] = e.SchemaPath

		id, err := in.files.LoadAs(e.Name, e.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("subgraph %q: %w", e.Name, err)
		}
		url := e.RoutingURL
		if u, ok := urls[e.Name]; ok {
			url = u
		}
		if url == "" {
			url = "http://" + e.Name
		}
		in.subgraphs = append(in.subgraphs, engine.SubgraphDefinition{
			Name: e.Name,
			URL:  url,
			SDL:  string(in.files.Get(id).Content),
		})
	}
	for name := range urls {
		if _, ok := seen[name]; !ok {
			return nil, fmt.Errorf("--routing-url: unknown subgraph %q", name)
		}
	}
	return in, nil
}

func parseRoutingURLs(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		name, url, ok := strings.Cut(v, "=")
		name = normalizeName(name)
		if !ok || name == "" || strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("invalid --routing-url %q (expected name=url)", v)
		}
		out[name] = strings.TrimSpace(url)
	}
	return out, nil
}
