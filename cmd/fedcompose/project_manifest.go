package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

const manifestName = "supergraph.toml"

const noManifestMessage = "no supergraph.toml found\nplease pass subgraph schemas explicitly, e.g.:\n  fedcompose compose products.graphql users.graphql"

// projectManifest is a parsed supergraph.toml:
//
//	[engine]
//	command = "node"
//	args    = ["compose.mjs"]
//	timeout = "2m"
//
//	[subgraphs.products]
//	routing_url = "http://products:4001"
//	schema      = "schemas/products.graphql"
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Supergraph supergraphConfig          `toml:"supergraph"`
	Engine     engineConfig              `toml:"engine"`
	Subgraphs  map[string]subgraphConfig `toml:"subgraphs"`
}

type supergraphConfig struct {
	Out string `toml:"out"`
}

type engineConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	Timeout string   `toml:"timeout"`
}

type subgraphConfig struct {
	RoutingURL string `toml:"routing_url"`
	Schema     string `toml:"schema"`
}

// manifestSubgraph is one [subgraphs.*] entry with its schema path resolved.
type manifestSubgraph struct {
	Name       string
	RoutingURL string
	SchemaPath string
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := readProjectManifest(manifestPath)
	return m, true, err
}

func readProjectManifest(path string) (*projectManifest, error) {
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, err
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("subgraphs") || len(cfg.Subgraphs) == 0 {
		return projectConfig{}, fmt.Errorf("%s: missing [subgraphs]", path)
	}
	for name, sub := range cfg.Subgraphs {
		if !meta.IsDefined("subgraphs", name, "schema") || strings.TrimSpace(sub.Schema) == "" {
			return projectConfig{}, fmt.Errorf("%s: missing [subgraphs.%s].schema", path, name)
		}
	}
	if cfg.Engine.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Engine.Timeout); err != nil {
			return projectConfig{}, fmt.Errorf("%s: invalid [engine].timeout: %w", path, err)
		}
	}
	return cfg, nil
}

// subgraphs returns the manifest entries sorted by normalized name.
func (m *projectManifest) subgraphs() ([]manifestSubgraph, error) {
	out := make([]manifestSubgraph, 0, len(m.Config.Subgraphs))
	seen := make(map[string]string, len(m.Config.Subgraphs))
	for raw, sub := range m.Config.Subgraphs {
		name := normalizeName(raw)
		if prev, dup := seen[name]; dup {
			return nil, fmt.Errorf("%s: subgraphs %q and %q have the same name", m.Path, prev, raw)
		}
		seen[name] = raw
		schema := filepath.FromSlash(strings.TrimSpace(sub.Schema))
		if !filepath.IsAbs(schema) {
			schema = filepath.Join(m.Root, schema)
		}
		out = append(out, manifestSubgraph{
			Name:       name,
			RoutingURL: strings.TrimSpace(sub.RoutingURL),
			SchemaPath: schema,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *projectManifest) timeout() time.Duration {
	d, err := time.ParseDuration(m.Config.Engine.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// normalizeName приводит имя сабграфа к NFC, чтобы одинаковые на вид
// имена совпадали при перезаписи идентификаторов.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
