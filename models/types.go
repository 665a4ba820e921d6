// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Coordinates is a lat/lng pair stored as a JSON column. Both fields are
// required once the pair has been set.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Value implements driver.Valuer interface for database storage
func (c Coordinates) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for database retrieval
func (c *Coordinates) Scan(value interface{}) error {
	if value == nil {
		*c = Coordinates{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into Coordinates", value)
	}
}

// GormDataType returns the data type for GORM
func (Coordinates) GormDataType() string {
	return "json"
}
