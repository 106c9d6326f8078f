package application

import (
	"encoding/json"
)

const (
	// MethodPersonalSign is the only method served by the signer.
	MethodPersonalSign = "personal_sign"
)

// Request is a method invocation received from an origin.
type Request struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// personalSignParams accepts both the positional form
// ["message", "address"] and the keyed form
// {"personal_sign": ["message", "address"]}.
type personalSignParams struct {
	Message string
	Address string
}

func (p *personalSignParams) UnmarshalJSON(buf []byte) error {
	var tuple []string
	if err := json.Unmarshal(buf, &tuple); err != nil {
		var keyed map[string][]string
		if err := json.Unmarshal(buf, &keyed); err != nil {
			return ErrInvalidParams
		}
		var ok bool
		if tuple, ok = keyed[MethodPersonalSign]; !ok {
			return ErrInvalidParams
		}
	}

	if len(tuple) != 2 || len(tuple[1]) <= 0 {
		return ErrInvalidParams
	}
	p.Message, p.Address = tuple[0], tuple[1]
	return nil
}

func parsePersonalSignParams(raw json.RawMessage) (*personalSignParams, error) {
	if len(raw) <= 0 {
		return nil, ErrInvalidParams
	}
	params := &personalSignParams{}
	if err := json.Unmarshal(raw, params); err != nil {
		return nil, ErrInvalidParams
	}
	return params, nil
}
