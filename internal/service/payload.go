package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"recipebook/internal/errors"
	"recipebook/internal/model"
)

// PayloadKind tells how a list-valued field arrived from the client.
type PayloadKind int

const (
	// PayloadOther covers absent fields and any shape that is neither text nor a list.
	PayloadOther PayloadKind = iota
	// PayloadRawJSON is client-encoded JSON text that still needs parsing.
	PayloadRawJSON
	// PayloadList is an already structured list.
	PayloadList
)

// Payload is an ingredients or steps value before normalization.
type Payload struct {
	Kind PayloadKind
	Text string
	List []json.RawMessage
}

// RawJSON wraps client-encoded JSON text.
func RawJSON(text string) Payload {
	return Payload{Kind: PayloadRawJSON, Text: text}
}

// ListOf wraps plain strings as a structured list.
func ListOf(items ...string) Payload {
	return Payload{Kind: PayloadList, List: model.NewEntries(items...)}
}

// PayloadFromJSON classifies a field taken from a JSON request body: a JSON
// string is raw JSON text, an array is a structured list, anything else
// (including absence and null) is Other.
func PayloadFromJSON(raw json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Payload{}
	}
	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return RawJSON(text)
		}
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return Payload{Kind: PayloadList, List: list}
		}
	}
	return Payload{}
}

// PayloadFromForm classifies the values of a multipart or urlencoded field.
// A single value is raw JSON text; repeated values form a list.
func PayloadFromForm(values []string) Payload {
	switch len(values) {
	case 0:
		return Payload{}
	case 1:
		return RawJSON(values[0])
	default:
		return ListOf(values...)
	}
}

// Normalize resolves a payload to its canonical list. Raw JSON text, blank
// included, must parse to an array; Other yields an empty list.
func Normalize(field string, p Payload) (model.Entries, error) {
	switch p.Kind {
	case PayloadRawJSON:
		text := strings.TrimSpace(p.Text)
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(text), &list); err != nil {
			return nil, fmt.Errorf("%w: %s must be a JSON array", errors.ErrMalformedPayload, field)
		}
		if list == nil {
			return model.Entries{}, nil
		}
		return model.Entries(list), nil
	case PayloadList:
		if p.List == nil {
			return model.Entries{}, nil
		}
		return model.Entries(p.List), nil
	default:
		return model.Entries{}, nil
	}
}
