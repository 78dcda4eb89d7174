package connect

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

const (
	connectDirective = "connect"
	sourceDirective  = "source"
	linkDirective    = "link"

	joinGraphEnum      = "join__Graph"
	joinGraphDirective = "join__graph"
	joinTypeDirective  = "join__type"
	joinFieldDirective = "join__field"

	connectSpecURL = "specs.apollo.dev/connect"

	// syntheticURL is advertised for generated subgraphs; nothing listens on it.
	syntheticURL = "http://connectors.invalid"
)

// httpVerbs in the order they are reported.
var httpVerbs = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

func argValue(d *ast.Directive, name string) *ast.Value {
	if d == nil {
		return nil
	}
	arg := d.Arguments.ForName(name)
	if arg == nil {
		return nil
	}
	return arg.Value
}

func stringValue(v *ast.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	switch v.Kind {
	case ast.StringValue, ast.BlockValue:
		return v.Raw, true
	}
	return "", false
}

func child(v *ast.Value, name string) *ast.Value {
	if v == nil || v.Kind != ast.ObjectValue {
		return nil
	}
	for _, c := range v.Children {
		if c.Name == name {
			return c.Value
		}
	}
	return nil
}

func isTrue(v *ast.Value) bool {
	return v != nil && v.Kind == ast.BooleanValue && v.Raw == "true"
}

func enumValue(v *ast.Value) (string, bool) {
	if v == nil || v.Kind != ast.EnumValue {
		return "", false
	}
	return v.Raw, true
}

// schemaDirectives returns the directives of every schema definition and
// extension, in document order.
func schemaDirectives(doc *ast.SchemaDocument) ast.DirectiveList {
	var out ast.DirectiveList
	for _, s := range doc.Schema {
		out = append(out, s.Directives...)
	}
	for _, s := range doc.SchemaExtension {
		out = append(out, s.Directives...)
	}
	return out
}

// typeDefinitions returns definitions followed by extensions.
func typeDefinitions(doc *ast.SchemaDocument) ast.DefinitionList {
	out := make(ast.DefinitionList, 0, len(doc.Definitions)+len(doc.Extensions))
	out = append(out, doc.Definitions...)
	return append(out, doc.Extensions...)
}

// rootTypes maps an operation to its root type name, honouring an explicit
// schema definition.
func rootTypes(doc *ast.SchemaDocument) map[ast.Operation]string {
	roots := map[ast.Operation]string{
		ast.Query:        "Query",
		ast.Mutation:     "Mutation",
		ast.Subscription: "Subscription",
	}
	for _, list := range []ast.SchemaDefinitionList{doc.Schema, doc.SchemaExtension} {
		for _, s := range list {
			for _, op := range s.OperationTypes {
				roots[op.Operation] = op.Type
			}
		}
	}
	return roots
}

// mentionsConnectors reports whether any @connect or @source appears.
func mentionsConnectors(doc *ast.SchemaDocument) bool {
	for _, d := range schemaDirectives(doc) {
		if d.Name == sourceDirective || d.Name == connectDirective {
			return true
		}
	}
	for _, def := range typeDefinitions(doc) {
		for _, f := range def.Fields {
			if f.Directives.ForName(connectDirective) != nil {
				return true
			}
		}
	}
	return false
}

// importsSource reports whether a connectors @link imports @source.
func importsSource(doc *ast.SchemaDocument) bool {
	for _, d := range schemaDirectives(doc).ForNames(linkDirective) {
		u, _ := stringValue(argValue(d, "url"))
		if !strings.Contains(u, connectSpecURL) {
			continue
		}
		imports := argValue(d, "import")
		if imports == nil || imports.Kind != ast.ListValue {
			continue
		}
		for _, c := range imports.Children {
			if name, ok := stringValue(c.Value); ok && name == "@"+sourceDirective {
				return true
			}
			if name, ok := stringValue(child(c.Value, "name")); ok && name == "@"+sourceDirective {
				return true
			}
		}
	}
	return false
}
