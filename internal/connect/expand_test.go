package connect

import (
	"errors"
	"strings"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const supergraphPrelude = `schema
  @link(url: "https://specs.apollo.dev/link/v1.0")
  @link(url: "https://specs.apollo.dev/join/v0.3", for: EXECUTION)
{
  query: Query
}

directive @join__field(graph: join__Graph, external: Boolean) repeatable on FIELD_DEFINITION | INPUT_FIELD_DEFINITION
directive @join__graph(name: String!, url: String!) on ENUM_VALUE
directive @join__type(graph: join__Graph!, key: String) repeatable on OBJECT | INTERFACE | UNION | ENUM | INPUT_OBJECT | SCALAR

enum join__Graph {
  PRODUCTS @join__graph(name: "products", url: "http://products:4001")
  USERS @join__graph(name: "users", url: "http://users:4002")
}
`

func reparse(t *testing.T, sdl string) *ast.SchemaDocument {
	t.Helper()
	doc, err := parser.ParseSchema(&ast.Source{Name: "expanded", Input: sdl})
	if err != nil {
		t.Fatalf("expanded SDL does not parse: %v\n%s", err, sdl)
	}
	return doc
}

func graphsOf(directives ast.DirectiveList, name string) []string {
	var out []string
	for _, d := range directives.ForNames(name) {
		if g, ok := enumValue(argValue(d, "graph")); ok {
			out = append(out, g)
		}
	}
	return out
}

func TestExpandUnchanged(t *testing.T) {
	sdl := supergraphPrelude + `
type Query @join__type(graph: USERS) {
  me: User
}
type User @join__type(graph: USERS) { id: ID! }
`
	out, err := Expand(sdl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if _, ok := out.(Unchanged); !ok {
		t.Fatalf("expected Unchanged, got %T", out)
	}
}

func TestExpandConnectedField(t *testing.T) {
	sdl := supergraphPrelude + `
type Query @join__type(graph: PRODUCTS) @join__type(graph: USERS) {
  products: [Product] @join__field(graph: PRODUCTS) @connect(http: {GET: "https://api.example.com/products"}, selection: "id")
  me: User @join__field(graph: USERS)
}
type Product @join__type(graph: PRODUCTS) { id: ID! }
type User @join__type(graph: USERS) { id: ID! }
`
	out, err := Expand(sdl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	expanded, ok := out.(Expanded)
	if !ok {
		t.Fatalf("expected Expanded, got %T", out)
	}
	if len(expanded.ByServiceName) != 1 || expanded.ByServiceName["products_Query_products_0"] != "products" {
		t.Fatalf("unexpected mapping %v", expanded.ByServiceName)
	}

	doc := reparse(t, expanded.RawSDL)
	graphs := doc.Definitions.ForName("join__Graph")
	value := graphs.EnumValues.ForName("PRODUCTS_QUERY_PRODUCTS_0")
	if value == nil {
		t.Fatalf("synthetic graph missing:\n%s", expanded.RawSDL)
	}
	jg := value.Directives.ForName("join__graph")
	if name, _ := stringValue(argValue(jg, "name")); name != "products_Query_products_0" {
		t.Errorf("synthetic name = %q", name)
	}
	if u, _ := stringValue(argValue(jg, "url")); u != "http://connectors.invalid" {
		t.Errorf("synthetic url = %q", u)
	}

	query := doc.Definitions.ForName("Query")
	products := query.Fields.ForName("products")
	if products.Directives.ForName("connect") != nil {
		t.Error("@connect was not removed")
	}
	if got := graphsOf(products.Directives, "join__field"); strings.Join(got, ",") != "PRODUCTS_QUERY_PRODUCTS_0" {
		t.Errorf("products join__field graphs = %v", got)
	}
	if got := graphsOf(query.Fields.ForName("me").Directives, "join__field"); strings.Join(got, ",") != "USERS" {
		t.Errorf("untouched field changed: %v", got)
	}
	if got := graphsOf(query.Directives, "join__type"); strings.Join(got, ",") != "PRODUCTS,USERS,PRODUCTS_QUERY_PRODUCTS_0" {
		t.Errorf("Query join__type graphs = %v", got)
	}
}

func TestExpandOwnerFromJoinType(t *testing.T) {
	sdl := supergraphPrelude + `
type Query @join__type(graph: PRODUCTS) {
  a: Int @connect(http: {GET: "https://a.example.com"})
  b: Int @connect(http: {GET: "https://b.example.com"}) @connect(http: {GET: "https://c.example.com"})
}
`
	out, err := Expand(sdl)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	expanded := out.(Expanded)
	want := map[string]string{
		"products_Query_a_0": "products",
		"products_Query_b_0": "products",
		"products_Query_b_1": "products",
	}
	if len(expanded.ByServiceName) != len(want) {
		t.Fatalf("mapping = %v", expanded.ByServiceName)
	}
	for k, v := range want {
		if expanded.ByServiceName[k] != v {
			t.Errorf("mapping[%q] = %q, want %q", k, expanded.ByServiceName[k], v)
		}
	}

	doc := reparse(t, expanded.RawSDL)
	b := doc.Definitions.ForName("Query").Fields.ForName("b")
	if got := graphsOf(b.Directives, "join__field"); strings.Join(got, ",") != "PRODUCTS_QUERY_B_0,PRODUCTS_QUERY_B_1" {
		t.Errorf("b join__field graphs = %v", got)
	}
}

func TestExpandErrors(t *testing.T) {
	tests := []struct {
		name string
		sdl  string
		want error
	}{
		{
			name: "ambiguous owner",
			sdl: supergraphPrelude + `
type Query @join__type(graph: PRODUCTS) @join__type(graph: USERS) {
  a: Int @connect(http: {GET: "https://a.example.com"})
}`,
			want: ErrUnknownOwner,
		},
		{
			name: "unknown graph",
			sdl: supergraphPrelude + `
type Query @join__type(graph: REVIEWS) {
  a: Int @connect(http: {GET: "https://a.example.com"})
}`,
			want: ErrUnknownOwner,
		},
		{
			name: "no graph enum",
			sdl: `type Query @join__type(graph: PRODUCTS) {
  a: Int @connect(http: {GET: "https://a.example.com"})
}`,
			want: ErrNoGraphEnum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Expand(tt.sdl)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Fatalf("expected no outcome, got %T", out)
			}
		})
	}
}

func TestExpandParseError(t *testing.T) {
	if _, err := Expand("type Query {"); err == nil {
		t.Fatal("expected a parse error")
	}
}
