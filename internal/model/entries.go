package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Entries is an ordered list of arbitrary JSON values (ingredients, steps)
// persisted as serialized JSON text. A nil list persists and marshals as [].
type Entries []json.RawMessage

// NewEntries builds Entries from plain strings.
func NewEntries(items ...string) Entries {
	out := make(Entries, 0, len(items))
	for _, item := range items {
		raw, _ := json.Marshal(item)
		out = append(out, raw)
	}
	return out
}

// GormDataType keeps the column as text on every dialect.
func (Entries) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (e Entries) Value() (driver.Value, error) {
	b, err := e.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (e *Entries) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*e = Entries{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan entries: unsupported type %T", src)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		*e = Entries{}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("scan entries: %w", err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	*e = items
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e Entries) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]json.RawMessage(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entries) UnmarshalJSON(data []byte) error {
	return e.Scan(data)
}
