package connect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// ExpansionOutcome is the result of Expand: Expanded or Unchanged.
type ExpansionOutcome interface {
	isExpansionOutcome()
}

// Expanded carries the rewritten supergraph and the mapping from each
// synthetic service name to the subgraph it was generated from.
type Expanded struct {
	RawSDL        string
	ByServiceName map[string]string
}

// Unchanged means the supergraph has no connectors.
type Unchanged struct{}

func (Expanded) isExpansionOutcome()  {}
func (Unchanged) isExpansionOutcome() {}

var (
	// ErrNoGraphEnum is returned when connectors exist but join__Graph does not.
	ErrNoGraphEnum = errors.New("supergraph has no join__Graph enum")
	// ErrUnknownOwner is returned when a connected field cannot be attributed to a subgraph.
	ErrUnknownOwner = errors.New("cannot determine the subgraph owning a connector")
)

// Expander rewrites connected fields. The zero value is ready to use.
type Expander struct{}

// Expand runs the expansion on a composed supergraph.
func (Expander) Expand(supergraphSDL string) (ExpansionOutcome, error) {
	return Expand(supergraphSDL)
}

// Expand moves every @connect field of the supergraph into its own synthetic
// join__Graph value and strips the @connect directives.
func Expand(supergraphSDL string) (ExpansionOutcome, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: "supergraph", Input: supergraphSDL})
	if err != nil {
		return nil, fmt.Errorf("parse supergraph: %w", err)
	}

	var connected []target
	for _, def := range doc.Definitions {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		for _, field := range def.Fields {
			if field.Directives.ForName(connectDirective) != nil {
				connected = append(connected, target{parent: def, field: field})
			}
		}
	}
	if len(connected) == 0 {
		return Unchanged{}, nil
	}

	graphs := doc.Definitions.ForName(joinGraphEnum)
	if graphs == nil || graphs.Kind != ast.Enum {
		return nil, ErrNoGraphEnum
	}
	names := graphNames(graphs)

	// владельцы определяются до правок: repoint добавляет @join__type родителю
	owners := make([]string, len(connected))
	for i, t := range connected {
		owner, err := t.owner()
		if err != nil {
			return nil, err
		}
		if _, ok := names[owner]; !ok {
			return nil, fmt.Errorf("%w: %s.%s refers to unknown graph %s", ErrUnknownOwner, t.parent.Name, t.field.Name, owner)
		}
		owners[i] = owner
	}

	byService := make(map[string]string)
	for i, t := range connected {
		owner := owners[i]
		subgraph := names[owner]
		var synthetic []string
		for n := range t.field.Directives.ForNames(connectDirective) {
			enumName := strings.ToUpper(fmt.Sprintf("%s_%s_%s_%d", owner, t.parent.Name, t.field.Name, n))
			service := fmt.Sprintf("%s_%s_%s_%d", subgraph, t.parent.Name, t.field.Name, n)
			graphs.EnumValues = append(graphs.EnumValues, &ast.EnumValueDefinition{
				Name:       enumName,
				Directives: ast.DirectiveList{joinGraph(service)},
			})
			byService[service] = subgraph
			synthetic = append(synthetic, enumName)
		}
		t.repoint(owner, synthetic)
	}

	var sb strings.Builder
	formatter.NewFormatter(&sb, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return Expanded{RawSDL: sb.String(), ByServiceName: byService}, nil
}

type target struct {
	parent *ast.Definition
	field  *ast.FieldDefinition
}

// owner returns the join__Graph value the field belongs to: the graph of
// its @join__field, or the single graph of its parent's @join__type.
func (t target) owner() (string, error) {
	for _, jf := range t.field.Directives.ForNames(joinFieldDirective) {
		if g, ok := enumValue(argValue(jf, "graph")); ok {
			return g, nil
		}
	}
	var owner string
	for _, jt := range t.parent.Directives.ForNames(joinTypeDirective) {
		g, ok := enumValue(argValue(jt, "graph"))
		if !ok {
			continue
		}
		if owner != "" && owner != g {
			return "", fmt.Errorf("%w: %s.%s is shared by %s and %s", ErrUnknownOwner, t.parent.Name, t.field.Name, owner, g)
		}
		owner = g
	}
	if owner == "" {
		return "", fmt.Errorf("%w: %s.%s has no join directives", ErrUnknownOwner, t.parent.Name, t.field.Name)
	}
	return owner, nil
}

// repoint replaces the owner's @join__field with one per synthetic graph,
// adds matching @join__type entries to the parent and removes @connect.
func (t target) repoint(owner string, synthetic []string) {
	kept := make(ast.DirectiveList, 0, len(t.field.Directives)+len(synthetic))
	for _, d := range t.field.Directives {
		switch d.Name {
		case connectDirective:
			continue
		case joinFieldDirective:
			if g, ok := enumValue(argValue(d, "graph")); ok && g == owner {
				continue
			}
		}
		kept = append(kept, d)
	}
	for _, g := range synthetic {
		kept = append(kept, joinField(g))
		t.parent.Directives = append(t.parent.Directives, joinType(g))
	}
	t.field.Directives = kept
}

func graphNames(graphs *ast.Definition) map[string]string {
	out := make(map[string]string, len(graphs.EnumValues))
	for _, v := range graphs.EnumValues {
		name, ok := stringValue(argValue(v.Directives.ForName(joinGraphDirective), "name"))
		if !ok {
			name = strings.ToLower(v.Name)
		}
		out[v.Name] = name
	}
	return out
}

func joinGraph(service string) *ast.Directive {
	return &ast.Directive{
		Name: joinGraphDirective,
		Arguments: ast.ArgumentList{
			{Name: "name", Value: &ast.Value{Kind: ast.StringValue, Raw: service}},
			{Name: "url", Value: &ast.Value{Kind: ast.StringValue, Raw: syntheticURL}},
		},
	}
}

func joinField(graph string) *ast.Directive {
	return &ast.Directive{
		Name:      joinFieldDirective,
		Arguments: ast.ArgumentList{{Name: "graph", Value: &ast.Value{Kind: ast.EnumValue, Raw: graph}}},
	}
}

func joinType(graph string) *ast.Directive {
	return &ast.Directive{
		Name:      joinTypeDirective,
		Arguments: ast.ArgumentList{{Name: "graph", Value: &ast.Value{Kind: ast.EnumValue, Raw: graph}}},
	}
}
