package diag

import (
	"fmt"
)

// ValidationCode identifies a finding of the native subgraph validator.
type ValidationCode uint16

const (
	UnknownCode ValidationCode = iota
	GraphQLError
	DuplicateSourceName
	InvalidSourceName
	EmptySourceName
	SourceScheme
	SourceNameMismatch
	SubscriptionInConnectors
	InvalidURL
	QueryFieldMissingConnect
	AbsoluteConnectURLWithSource
	RelativeConnectURLWithoutSource
	NoSourcesDefined
	NoSourceImport
	MultipleHTTPMethods
	MissingHTTPMethod
	EntityNotOnRootQuery
	EntityTypeInvalid
)

var (
	codeIDs = map[ValidationCode]string{
		GraphQLError:                    "GRAPHQL_ERROR",
		DuplicateSourceName:             "DUPLICATE_SOURCE_NAME",
		InvalidSourceName:               "INVALID_SOURCE_NAME",
		EmptySourceName:                 "EMPTY_SOURCE_NAME",
		SourceScheme:                    "SOURCE_SCHEME",
		SourceNameMismatch:              "SOURCE_NAME_MISMATCH",
		SubscriptionInConnectors:        "SUBSCRIPTION_IN_CONNECTORS",
		InvalidURL:                      "INVALID_URL",
		QueryFieldMissingConnect:        "QUERY_FIELD_MISSING_CONNECT",
		AbsoluteConnectURLWithSource:    "ABSOLUTE_CONNECT_URL_WITH_SOURCE",
		RelativeConnectURLWithoutSource: "RELATIVE_CONNECT_URL_WITHOUT_SOURCE",
		NoSourcesDefined:                "NO_SOURCES_DEFINED",
		NoSourceImport:                  "NO_SOURCE_IMPORT",
		MultipleHTTPMethods:             "MULTIPLE_HTTP_METHODS",
		MissingHTTPMethod:               "MISSING_HTTP_METHOD",
		EntityNotOnRootQuery:            "ENTITY_NOT_ON_ROOT_QUERY",
		EntityTypeInvalid:               "ENTITY_TYPE_INVALID",
	}

	codeDescription = map[ValidationCode]string{
		UnknownCode:                     "unknown validation error",
		GraphQLError:                    "schema is not valid GraphQL",
		DuplicateSourceName:             "@source name is declared twice",
		InvalidSourceName:               "@source name is not a valid identifier",
		EmptySourceName:                 "@source name is empty",
		SourceScheme:                    "@source baseURL must use http or https",
		SourceNameMismatch:              "@connect refers to an undeclared @source",
		SubscriptionInConnectors:        "@connect is not supported on subscription fields",
		InvalidURL:                      "URL cannot be parsed",
		QueryFieldMissingConnect:        "Query field has no @connect",
		AbsoluteConnectURLWithSource:    "@connect with a source must use a relative URL",
		RelativeConnectURLWithoutSource: "@connect without a source must use an absolute URL",
		NoSourcesDefined:                "@connect refers to a source but none are declared",
		NoSourceImport:                  "@source is used but not imported",
		MultipleHTTPMethods:             "@connect declares more than one HTTP method",
		MissingHTTPMethod:               "@connect declares no HTTP method",
		EntityNotOnRootQuery:            "entity connector must be on a Query field",
		EntityTypeInvalid:               "entity connector must return a single object type",
	}
)

// AllValidationCodes lists every code the native validator can produce.
func AllValidationCodes() []ValidationCode {
	out := make([]ValidationCode, 0, len(codeIDs))
	for c := GraphQLError; c <= EntityTypeInvalid; c++ {
		out = append(out, c)
	}
	return out
}

// ID returns the public code string reported to users.
func (c ValidationCode) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return "UNKNOWN"
}

// Severity returns the severity the code is reported with.
func (c ValidationCode) Severity() Severity {
	switch c {
	case NoSourceImport:
		return SevWarning
	default:
		return SevError
	}
}

func (c ValidationCode) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c ValidationCode) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
