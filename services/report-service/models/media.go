package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MediaPaths is an ordered list of stored media paths. Rows written by
// earlier revisions hold either a bare path string or a JSON-encoded array
// of paths in the same field; both are normalized here, at the persistence
// boundary, so the union type never reaches a handler. Writes always
// produce a proper array.
type MediaPaths []string

func (m MediaPaths) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(m))
}

func (m *MediaPaths) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*m = nil
		return nil

	case bson.TypeArray:
		var paths []string
		if err := rv.Unmarshal(&paths); err != nil {
			return fmt.Errorf("failed to decode media path array: %w", err)
		}
		*m = paths
		return nil

	case bson.TypeString:
		s := strings.TrimSpace(rv.StringValue())
		if s == "" {
			*m = nil
			return nil
		}
		if strings.HasPrefix(s, "[") {
			var paths []string
			if err := json.Unmarshal([]byte(s), &paths); err == nil {
				*m = paths
				return nil
			}
			// Not valid JSON after all; keep the literal value.
		}
		*m = MediaPaths{s}
		return nil
	}

	return fmt.Errorf("cannot decode media paths from BSON type %s", t)
}
