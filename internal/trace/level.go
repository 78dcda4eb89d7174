package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // tracing disabled
	LevelError               // nothing is streamed; ring keeps heartbeats only
	LevelPhase               // run + stage boundaries
	LevelDetail              // per-subgraph spans and engine calls
	LevelDebug               // same scopes as detail
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// самый мелкий scope, который ещё пишется на уровне
var levelMaxScope = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopeStage,
	LevelDetail: ScopeSubgraph,
	LevelDebug:  ScopeSubgraph,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for lvl, candidate := range levelNames {
		if candidate == name {
			return Level(lvl), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass the level filter.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelMaxScope) || scope == 0 {
		return false
	}
	return scope <= levelMaxScope[l]
}

// accepts is the filter shared by the concrete sinks: heartbeats bypass the level.
func (l Level) accepts(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.ShouldEmit(ev.Scope)
}
