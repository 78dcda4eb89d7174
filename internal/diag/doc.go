// Package diag defines the diagnostic model shared by every composition stage.
//
// # Data model
//
// Issue is the central record:
//
//   - Code – public SCREAMING_SNAKE identifier. Native validator findings
//     get theirs from the ValidationCode table (codes.go); findings of the
//     external engine keep whatever code the engine attached.
//   - Message – human oriented text.
//   - Locations – zero or more ranges in subgraph SDL, attributed to the
//     subgraph by name.
//   - Severity – SevError or SevWarning.
//
// # Coordinates
//
// SourcePoint is zero-indexed. The external engine and every consumer of
// BuildMessage speak one-indexed coordinates; PointFromOneIndexed and
// Issue.ToBuildMessage are the only two crossings and are inverse of each
// other.
//
// # Sink
//
// Bag collects issues in arrival order and never drops one. A run owns its
// Bag; hosts receive it explicitly.
package diag
