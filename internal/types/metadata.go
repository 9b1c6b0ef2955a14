package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a free-form set of key-value pairs stored as a JSONB column
type Metadata map[string]string

// Scan implements sql.Scanner. A NULL column scans to an empty map.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	result := make(Metadata)
	err := json.Unmarshal(data, &result)
	*m = result
	return err
}

// Value implements driver.Valuer. A nil map is stored as an empty object
// so the column never holds SQL NULL.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(Metadata))
	}
	return json.Marshal(m)
}
