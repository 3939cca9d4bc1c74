package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TagList is an ordered set of non-empty tags. It is stored as a single
// comma-joined column and exposed as a JSON array on the wire.
type TagList []string

// NewTagList builds a canonical tag list: trimmed, non-empty, order preserved,
// duplicates dropped.
func NewTagList(tags []string) TagList {
	out := make(TagList, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Value serializes the list to its comma-joined storage form.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// Scan parses the comma-joined storage form back into a list.
func (t *TagList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported tag list type %T", src)
	}
	*t = NewTagList(strings.Split(raw, ","))
	return nil
}

// MarshalJSON renders a nil list as [] so clients always receive an array.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}
