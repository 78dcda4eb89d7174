// Package engine holds the wire model exchanged with the external
// composition engine and its conversions into diag issues.
package engine

// SubgraphDefinition is one subgraph as handed to the composition engine.
type SubgraphDefinition struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	SDL  string `json:"sdl"`
}

// TokenPoint is a one-indexed engine position. Either side may be missing.
type TokenPoint struct {
	Line   *int `json:"line,omitempty"`
	Column *int `json:"column,omitempty"`
}

// NodeLocation spans a node from its first to its last token.
type NodeLocation struct {
	StartToken TokenPoint `json:"startToken"`
	EndToken   TokenPoint `json:"endToken"`
}

// SubgraphASTNode points at a node of a subgraph's SDL.
type SubgraphASTNode struct {
	Subgraph *string       `json:"subgraph,omitempty"`
	Loc      *NodeLocation `json:"loc,omitempty"`
}

// ErrorExtensions carries the machine-readable error code.
type ErrorExtensions struct {
	Code string `json:"code"`
}

// GraphQLError is an error reported by the engine.
type GraphQLError struct {
	Message    string            `json:"message"`
	Extensions *ErrorExtensions  `json:"extensions,omitempty"`
	Nodes      []SubgraphASTNode `json:"nodes,omitempty"`
}

// HintDefinition identifies a hint kind.
type HintDefinition struct {
	Code string `json:"code"`
}

// CompositionHint is a non-blocking remark reported by the engine.
type CompositionHint struct {
	Message    string            `json:"message"`
	Definition HintDefinition    `json:"definition"`
	Nodes      []SubgraphASTNode `json:"nodes,omitempty"`
}

// SatisfiabilityResult is the engine's satisfiability answer. Both lists may be absent.
type SatisfiabilityResult struct {
	Errors []GraphQLError    `json:"errors,omitempty"`
	Hints  []CompositionHint `json:"hints,omitempty"`
}
