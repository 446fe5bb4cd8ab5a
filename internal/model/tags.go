package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TagList is a set of opaque labels stored as a single comma-joined column.
type TagList []string

// Scan implements sql.Scanner.
func (t *TagList) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported tag column type %T", value)
	}

	*t = SplitTags(raw)
	return nil
}

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	return strings.Join(t, ","), nil
}

// Contains reports whether the list holds the given tag.
func (t TagList) Contains(tag string) bool {
	for _, have := range t {
		if have == tag {
			return true
		}
	}
	return false
}

// Intersects reports whether the list shares at least one tag with the set.
func (t TagList) Intersects(tags map[string]struct{}) bool {
	for _, have := range t {
		if _, ok := tags[have]; ok {
			return true
		}
	}
	return false
}

// SplitTags parses a comma-joined tag string. Tokens are trimmed and empty
// tokens dropped, so an empty or all-whitespace input yields nil.
func SplitTags(raw string) TagList {
	var tags TagList
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tags = append(tags, token)
	}
	return tags
}
