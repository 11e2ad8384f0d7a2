package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"admin-console/internal/models"
)

// ErrUnrecognizedShape is returned when a success payload matches none of the accepted shapes.
var ErrUnrecognizedShape = errors.New("client: unrecognized response shape")

// DecodeCollection accepts {"data": [...]} or a bare [...] and returns the items.
// Numbers keep their textual form as json.Number.
func DecodeCollection(raw []byte) ([]models.Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrUnrecognizedShape
	}

	switch raw[0] {
	case '[':
		return decodeItems(raw)
	case '{':
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("client: decode collection: %w", err)
		}
		data := bytes.TrimSpace(env["data"])
		if len(data) == 0 || data[0] != '[' {
			return nil, ErrUnrecognizedShape
		}
		return decodeItems(data)
	default:
		return nil, ErrUnrecognizedShape
	}
}

func decodeItems(raw []byte) ([]models.Item, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	items := []models.Item{}
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("client: decode items: %w", err)
	}
	return items, nil
}

// decodeItem accepts {"data": {...}} or a bare object.
func decodeItem(raw []byte) (models.Item, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrUnrecognizedShape
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj models.Item
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("client: decode item: %w", err)
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return models.Item(data), nil
	}
	return obj, nil
}
