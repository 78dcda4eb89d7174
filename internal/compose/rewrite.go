package compose

import (
	"cmp"
	"slices"

	"fedcompose/internal/diag"
)

// rewriteIdentifiers replaces every synthetic service name in the issue
// messages with the subgraph it came from. Replacement is a plain substring
// match; longer service names apply first so a name that prefixes another
// cannot split it, ties in ascending order. Locations are left alone.
func rewriteIdentifiers(issues []diag.Issue, byService map[string]string) []diag.Issue {
	if len(byService) == 0 {
		return issues
	}
	services := make([]string, 0, len(byService))
	for svc := range byService {
		services = append(services, svc)
	}
	slices.SortFunc(services, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	out := make([]diag.Issue, len(issues))
	for i, issue := range issues {
		for _, svc := range services {
			issue = issue.ReplaceInMessage(svc, byService[svc])
		}
		out[i] = issue
	}
	return out
}

// satisfiabilityIssues flattens an outcome: errors then hints, or the single
// failure issue.
func satisfiabilityIssues(outcome SatisfiabilityOutcome) []diag.Issue {
	switch o := outcome.(type) {
	case SatisfiabilityChecked:
		return o.Result.Issues()
	case SatisfiabilityFailed:
		return []diag.Issue{o.Issue}
	}
	return []diag.Issue{diag.InternalError(errNoOutcome)}
}
