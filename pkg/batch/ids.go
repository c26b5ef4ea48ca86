package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// IDs is a list of identifiers that also accepts a single identifier when
// decoded from JSON: "a" decodes to ["a"] and null decodes to an empty list.
type IDs []string

// UnmarshalJSON implements json.Unmarshaler.
func (ids *IDs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*ids = IDs{}

		return nil
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("could not decode id: %w", err)
		}
		*ids = IDs{id}

		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("could not decode ids: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*ids = list

	return nil
}

// SplitIDs splits a comma separated identifier list, dropping empty entries
// and surrounding whitespace. Duplicates are kept.
func SplitIDs(raw string) IDs {
	out := IDs{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
