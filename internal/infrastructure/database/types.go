package database

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/fleetops/alert-engine/internal/domain/entity"
)

// JSONMap is a map that can be scanned from and valued to database JSONB.
type JSONMap map[string]interface{}

// Scan implements sql.Scanner interface.
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer interface.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// StringArray is a []string that can be scanned from and valued to
// database JSONB, used for BackgroundJob.Errors.
type StringArray []string

// Scan implements sql.Scanner interface.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*a = nil
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value implements driver.Valuer interface.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(a)
}

// StateHistory is the JSONB-backed ordered log of an alert's lifecycle
// transitions.
type StateHistory []entity.AlertStateTransition

// Scan implements sql.Scanner interface.
func (h *StateHistory) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	if len(bytes) == 0 {
		*h = nil
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Value implements driver.Valuer interface.
func (h StateHistory) Value() (driver.Value, error) {
	if h == nil {
		return json.Marshal([]entity.AlertStateTransition{})
	}
	return json.Marshal(h)
}

// remarshal round-trips src through JSON into dst, used to convert a
// JSONMap column's contents into a concrete struct (e.g. RuleCondition).
func remarshal(src, dst interface{}) error {
	bytes, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, dst)
}

// toJSONMap round-trips src through JSON into a JSONMap, the inverse of
// remarshal, used when writing a concrete struct into a JSONB column.
func toJSONMap(src interface{}) (JSONMap, error) {
	bytes, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}

	var m JSONMap
	if err := json.Unmarshal(bytes, &m); err != nil {
		return nil, err
	}
	return m, nil
}
