package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonStrings stores a string slice in a jsonb column. It keeps car images
// and tags ordered without extra tables.
type jsonStrings []string

// Value implements [driver.Valuer]. A nil slice is stored as an empty
// JSON array so the column never holds SQL NULL.
func (j jsonStrings) Value() (driver.Value, error) {
	if j == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(j))
}

// Scan implements [sql.Scanner].
func (j *jsonStrings) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*j = jsonStrings{}
		return nil
	case []byte:
		return json.Unmarshal(value, j)
	case string:
		return json.Unmarshal([]byte(value), j)
	default:
		return fmt.Errorf("unsupported source type %T for jsonb string array", src)
	}
}
