package tokenkit

import "encoding/json"

// ConvertType re-decodes loosely typed data (e.g. an `any` field of an API
// envelope) into T
func ConvertType[T any](data any) (T, error) {
	var result T
	bytes, err := json.Marshal(data)
	if err != nil {
		return result, err
	}

	err = json.Unmarshal(bytes, &result)
	return result, err
}
