// Package connect implements the connectors extension: a rule set that
// validates @source/@connect usage in one subgraph, and an expander that
// rewrites connected fields of a composed supergraph into synthetic
// subgraphs the satisfiability checker understands.
//
// Both work on the gqlparser schema AST. Positions reported by the lexer are
// rune offsets; they are resolved through source.File into zero-indexed
// diag points.
package connect
