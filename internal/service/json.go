package service

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// setJSON marshals items into a gorm JSON column, leaving the column
// untouched when the slice is nil so partial updates do not wipe it.
func setJSON[T any](dst *datatypes.JSON, items []T) error {
	if items == nil {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	*dst = raw
	return nil
}
