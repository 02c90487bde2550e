package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeTags serializes tags into the text stored in the tags column.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	// a []string always marshals
	encoded, _ := json.Marshal(tags)
	return string(encoded)
}

// DecodeTags is the inverse of EncodeTags. Absent or empty values decode to an
// empty, non-nil slice.
func DecodeTags(stored *string) ([]string, error) {
	if stored == nil || strings.TrimSpace(*stored) == "" {
		return []string{}, nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(*stored), &tags); err != nil {
		return nil, fmt.Errorf("decode tags %q: %w", *stored, err)
	}
	if tags == nil {
		return []string{}, nil
	}
	return tags, nil
}
