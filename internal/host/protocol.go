package host

import (
	"encoding/json"
	"fmt"

	"fedcompose/internal/engine"
)

const (
	kindCompose        = "compose"
	kindSatisfiability = "satisfiability"
)

type request struct {
	Kind          string                      `json:"kind"`
	Subgraphs     []engine.SubgraphDefinition `json:"subgraphs,omitempty"`
	SupergraphSDL string                      `json:"supergraphSdl,omitempty"`
}

type response struct {
	SupergraphSDL *string                  `json:"supergraphSdl,omitempty"`
	Errors        []engine.GraphQLError    `json:"errors,omitempty"`
	Hints         []engine.CompositionHint `json:"hints,omitempty"`
}

func encodeRequest(req request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Kind, err)
	}
	return data, nil
}

func decodeResponse(kind string, data []byte) (response, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return response{}, fmt.Errorf("decode %s response: %w", kind, err)
	}
	return resp, nil
}
