// Package host implements compose.HybridComposition on top of an external
// composition engine reached through satellite.Launch.
//
// Протокол: один JSON-запрос на stdin, один JSON-ответ на stdout.
//
//	{"kind":"compose","subgraphs":[{"name":..,"url":..,"sdl":..}]}
//	{"kind":"satisfiability","supergraphSdl":".."}
//
// Both requests are answered with
//
//	{"supergraphSdl":"..","errors":[..],"hints":[..]}
//
// where supergraphSdl is present only for a successful compose.
package host
