package connect

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"fedcompose/internal/diag"
	"fedcompose/internal/source"
)

var sourceNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Validator is the connectors rule set. The zero value is ready to use.
type Validator struct{}

// Validate runs the rule set against one subgraph.
func (Validator) Validate(name, sdl string) []diag.ValidationError {
	return Validate(name, sdl)
}

// Validate parses sdl and checks its connectors usage. The rules only run
// when the schema mentions @connect or @source. Syntax errors are left to the
// composition engine: a broken schema is checked on the definitions that
// parse before the error. Findings come back in document order.
func Validate(name, sdl string) []diag.ValidationError {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		if !strings.Contains(sdl, "@"+connectDirective) && !strings.Contains(sdl, "@"+sourceDirective) {
			return nil
		}
		doc = partialParse(name, sdl, err)
	}
	if doc == nil || !mentionsConnectors(doc) {
		return nil
	}

	c := &checker{file: source.NewText(name, sdl), doc: doc, roots: rootTypes(doc)}
	declared := c.checkSources()
	c.checkConnects(declared)
	c.checkRootQuery()
	return c.errs
}

// partialParse returns the longest prefix of sdl that ends at a top-level
// definition boundary before the error line and parses cleanly.
// Offsets in the result are valid for the whole text.
func partialParse(name, sdl string, err error) *ast.SchemaDocument {
	limit := len(sdl)
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) && len(gqlErr.Locations) > 0 {
		limit = lineStart(sdl, gqlErr.Locations[0].Line)
	}

	cuts := []int{limit}
	for off := 0; off < limit; {
		if off > 0 && startsDefinition(sdl[off:]) {
			cuts = append(cuts, off)
		}
		nl := strings.IndexByte(sdl[off:], '\n')
		if nl < 0 {
			break
		}
		off += nl + 1
	}
	// сначала самый длинный префикс
	slices.Sort(cuts)
	for i := len(cuts) - 1; i >= 0; i-- {
		if cuts[i] == 0 {
			break
		}
		doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: sdl[:cuts[i]]})
		if err == nil {
			return doc
		}
	}
	return nil
}

// lineStart is the byte offset of the one-indexed line, clamped to len(sdl).
func lineStart(sdl string, line int) int {
	off := 0
	for l := 1; l < line; l++ {
		nl := strings.IndexByte(sdl[off:], '\n')
		if nl < 0 {
			return len(sdl)
		}
		off += nl + 1
	}
	return off
}

func startsDefinition(rest string) bool {
	if rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '\t', '\r', '\n', '}', ')', ']', '|', '@', '#', ',':
		return false
	}
	return true
}

type checker struct {
	file  *source.File
	doc   *ast.SchemaDocument
	roots map[ast.Operation]string
	errs  []diag.ValidationError
}

func (c *checker) report(code diag.ValidationCode, pos *ast.Position, format string, args ...any) {
	c.errs = append(c.errs, diag.ValidationError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Locations: c.rangeOf(pos),
	})
}

func (c *checker) rangeOf(pos *ast.Position) []diag.Range {
	if pos == nil {
		return nil
	}
	start := c.file.RunePoint(pos.Start)
	end := c.file.RunePoint(pos.End)
	return []diag.Range{{
		Start: diag.SourcePoint{Line: start.Line, Column: start.Column},
		End:   diag.SourcePoint{Line: end.Line, Column: end.Column},
	}}
}

func valuePos(v *ast.Value, fallback *ast.Position) *ast.Position {
	if v != nil && v.Position != nil {
		return v.Position
	}
	return fallback
}

// checkSources validates every @source and returns the set of declared names.
func (c *checker) checkSources() map[string]struct{} {
	declared := make(map[string]struct{})
	sources := schemaDirectives(c.doc).ForNames(sourceDirective)

	for _, d := range sources {
		nameVal := argValue(d, "name")
		name, _ := stringValue(nameVal)
		switch {
		case name == "":
			c.report(diag.EmptySourceName, valuePos(nameVal, d.Position),
				"The value for `@source(name:)` can't be empty.")
		case !sourceNamePattern.MatchString(name):
			c.report(diag.InvalidSourceName, valuePos(nameVal, d.Position),
				"`@source(name: %q)` is invalid; only alphanumeric characters and underscores are allowed, and it must start with a letter.", name)
		}
		if name != "" {
			if _, dup := declared[name]; dup {
				c.report(diag.DuplicateSourceName, valuePos(nameVal, d.Position),
					"Every `@source(name:)` must be unique. Found duplicate name %q.", name)
			}
			declared[name] = struct{}{}
		}

		baseVal := child(argValue(d, "http"), "baseURL")
		base, ok := stringValue(baseVal)
		if !ok {
			c.report(diag.InvalidURL, valuePos(baseVal, d.Position),
				"`@source(name: %q)` must define `http.baseURL`.", name)
			continue
		}
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			reason := "it has no host"
			if err != nil {
				reason = err.Error()
			}
			c.report(diag.InvalidURL, valuePos(baseVal, d.Position),
				"The value %q for `@source(name: %q, http.baseURL:)` is not a valid URL: %s.", base, name, reason)
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			c.report(diag.SourceScheme, valuePos(baseVal, d.Position),
				"The value %q for `@source(name: %q, http.baseURL:)` must use http or https, got %s.", base, name, u.Scheme)
		}
	}

	if len(sources) > 0 && !importsSource(c.doc) {
		c.report(diag.NoSourceImport, sources[0].Position,
			"The `@source` directive is not imported. Add `@source` to the `import` list of the connect `@link`.")
	}
	return declared
}

func (c *checker) checkConnects(declared map[string]struct{}) {
	for _, def := range typeDefinitions(c.doc) {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		for _, field := range def.Fields {
			for _, d := range field.Directives.ForNames(connectDirective) {
				c.checkConnect(def, field, d, declared)
			}
		}
	}
}

func (c *checker) checkConnect(parent *ast.Definition, field *ast.FieldDefinition, d *ast.Directive, declared map[string]struct{}) {
	coord := parent.Name + "." + field.Name

	if parent.Name == c.roots[ast.Subscription] {
		c.report(diag.SubscriptionInConnectors, d.Position,
			"A subscription root field cannot be a connector: `%s`.", coord)
	}

	sourceVal := argValue(d, "source")
	sourceName, hasSource := stringValue(sourceVal)
	if hasSource {
		if len(declared) == 0 {
			c.report(diag.NoSourcesDefined, valuePos(sourceVal, d.Position),
				"`@connect(source: %q)` on `%s` specifies a source, but none are defined. Try adding `@source(name: %q)` to the schema.", sourceName, coord, sourceName)
		} else if _, ok := declared[sourceName]; !ok {
			c.report(diag.SourceNameMismatch, valuePos(sourceVal, d.Position),
				"`@connect(source: %q)` on `%s` does not match any defined sources. Did you mean %s?", sourceName, coord, quotedNames(declared))
		}
	}

	c.checkHTTP(coord, d, hasSource)

	if isTrue(argValue(d, "entity")) {
		c.checkEntity(parent, field, d, coord)
	}
}

func (c *checker) checkHTTP(coord string, d *ast.Directive, hasSource bool) {
	http := argValue(d, "http")
	var verbs []string
	var target *ast.Value
	for _, verb := range httpVerbs {
		if v := child(http, verb); v != nil {
			verbs = append(verbs, verb)
			target = v
		}
	}
	switch len(verbs) {
	case 0:
		c.report(diag.MissingHTTPMethod, valuePos(http, d.Position),
			"`@connect(http:)` on `%s` must specify an HTTP method.", coord)
		return
	case 1:
	default:
		c.report(diag.MultipleHTTPMethods, valuePos(http, d.Position),
			"`@connect(http:)` on `%s` cannot specify more than one HTTP method; found %s.", coord, strings.Join(verbs, ", "))
		return
	}

	verb := verbs[0]
	raw, _ := stringValue(target)
	absolute := strings.Contains(raw, "://")
	switch {
	case hasSource && absolute:
		c.report(diag.AbsoluteConnectURLWithSource, valuePos(target, d.Position),
			"%q in `@connect(http.%s:)` on `%s` contains the base URL; it must be a relative path when `source` is set.", raw, verb, coord)
	case !hasSource && !absolute:
		c.report(diag.RelativeConnectURLWithoutSource, valuePos(target, d.Position),
			"%q in `@connect(http.%s:)` on `%s` must be an absolute URL when no `source` is set.", raw, verb, coord)
	case !hasSource:
		if u, err := url.Parse(raw); err != nil || u.Host == "" {
			reason := "it has no host"
			if err != nil {
				reason = err.Error()
			}
			c.report(diag.InvalidURL, valuePos(target, d.Position),
				"%q in `@connect(http.%s:)` on `%s` is not a valid URL: %s.", raw, verb, coord, reason)
		}
	}
}

func (c *checker) checkEntity(parent *ast.Definition, field *ast.FieldDefinition, d *ast.Directive, coord string) {
	pos := valuePos(argValue(d, "entity"), d.Position)
	if parent.Name != c.roots[ast.Query] {
		c.report(diag.EntityNotOnRootQuery, pos,
			"`@connect(entity: true)` on `%s` is invalid; entity resolvers must be root query fields.", coord)
		return
	}
	if field.Type == nil {
		return
	}
	if field.Type.Elem != nil {
		c.report(diag.EntityTypeInvalid, pos,
			"`@connect(entity: true)` on `%s` is invalid; entity connectors must return a single object type, not a list `%s`.", coord, field.Type.String())
		return
	}
	target := typeDefinitions(c.doc).ForName(field.Type.NamedType)
	if target == nil || target.Kind != ast.Object {
		c.report(diag.EntityTypeInvalid, pos,
			"`@connect(entity: true)` on `%s` is invalid; entity connectors must return an object type, not `%s`.", coord, field.Type.NamedType)
	}
}

// checkRootQuery requires every Query field to be a connector once any is.
func (c *checker) checkRootQuery() {
	queryName := c.roots[ast.Query]
	var fields []*ast.FieldDefinition
	connected := false
	for _, def := range typeDefinitions(c.doc) {
		if def.Name != queryName || def.Kind != ast.Object {
			continue
		}
		for _, f := range def.Fields {
			fields = append(fields, f)
			if f.Directives.ForName(connectDirective) != nil {
				connected = true
			}
		}
	}
	if !connected {
		return
	}
	for _, f := range fields {
		if f.Directives.ForName(connectDirective) != nil {
			continue
		}
		c.report(diag.QueryFieldMissingConnect, f.Position,
			"The field `%s.%s` has no `@connect` directive. Root fields of a schema that uses connectors must all be connectors.", queryName, f.Name)
	}
}

func quotedNames(names map[string]struct{}) string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, fmt.Sprintf("%q", n))
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
