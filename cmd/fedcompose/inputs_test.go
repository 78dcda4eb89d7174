package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadInputsFromFiles(t *testing.T) {
	dir := t.TempDir()
	products := filepath.Join(dir, "products.graphql")
	users := filepath.Join(dir, "users.graphql")
	writeFile(t, products, "type Query { a: Int }\r\n")
	writeFile(t, users, "type Query { b: Int }\n")

	in, err := loadInputs([]string{products, users}, inputOptions{routingURLs: []string{"users=http://users:4002"}})
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if len(in.subgraphs) != 2 {
		t.Fatalf("subgraphs = %+v", in.subgraphs)
	}
	if in.subgraphs[0].Name != "products" || in.subgraphs[0].URL != "http://products" {
		t.Fatalf("first = %+v", in.subgraphs[0])
	}
	if in.subgraphs[0].SDL != "type Query { a: Int }\n" {
		t.Fatalf("CRLF not normalized: %q", in.subgraphs[0].SDL)
	}
	if in.subgraphs[1].URL != "http://users:4002" {
		t.Fatalf("routing url = %q", in.subgraphs[1].URL)
	}
	if _, ok := in.files.GetByName("users"); !ok {
		t.Fatal("file set misses users")
	}
}

func TestLoadInputsFromManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), sampleManifest)
	writeFile(t, filepath.Join(root, "schemas", "products.graphql"), "type Query { a: Int }\n")
	writeFile(t, filepath.Join(root, "schemas", "users.graphql"), "type Query { b: Int }\n")

	in, err := loadInputs(nil, inputOptions{configPath: filepath.Join(root, manifestName)})
	if err != nil {
		t.Fatalf("loadInputs: %v", err)
	}
	if in.manifest == nil || len(in.subgraphs) != 2 {
		t.Fatalf("inputs = %+v", in)
	}
	if in.subgraphs[1].Name != "users" || in.subgraphs[1].URL != "http://users:4002" {
		t.Fatalf("users = %+v", in.subgraphs[1])
	}
}

func TestLoadInputsErrors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.graphql")
	writeFile(t, a, "type Query { a: Int }\n")
	dup := filepath.Join(dir, "nested", "a.graphql")
	writeFile(t, dup, "type Query { a: Int }\n")

	tests := []struct {
		name  string
		paths []string
		opts  inputOptions
		want  string
	}{
		{"duplicate", []string{a, dup}, inputOptions{}, "defined by both"},
		{"missing file", []string{filepath.Join(dir, "nope.graphql")}, inputOptions{}, "subgraph \"nope\""},
		{"bad routing url", []string{a}, inputOptions{routingURLs: []string{"a"}}, "expected name=url"},
		{"unknown routing url", []string{a}, inputOptions{routingURLs: []string{"b=http://b"}}, "unknown subgraph \"b\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadInputs(tt.paths, tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
