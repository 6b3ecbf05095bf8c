package action

import "encoding/json"

// MarshalJSON externally tags kind with its Type() as "type" alongside its
// own fields flattened into the same object.
func MarshalJSON(kind Kind) ([]byte, error) {
	fields, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(fields, &raw); err != nil {
		return nil, err
	}

	typeTag, err := json.Marshal(kind.Type())
	if err != nil {
		return nil, err
	}
	raw["type"] = typeTag

	return json.Marshal(raw)
}
