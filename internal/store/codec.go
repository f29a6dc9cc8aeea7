package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/enlearn/internal/domain"
)

// DecodeCollection parses a persisted collection. The data must be a JSON
// array whose elements are all objects.
func DecodeCollection(location string, data []byte) ([]domain.Record, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptedStorageError{Location: location, Reason: "not valid JSON", Err: err}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, &CorruptedStorageError{
			Location: location,
			Reason:   fmt.Sprintf("expected a list of entries, found %s", jsonKind(raw)),
		}
	}

	records := make([]domain.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &CorruptedStorageError{
				Location: location,
				Reason:   fmt.Sprintf("entry %d is %s, not an object", i, jsonKind(item)),
			}
		}
		records = append(records, domain.Record(obj))
	}
	return records, nil
}

// DecodeRecord parses a single persisted record.
func DecodeRecord(location string, data []byte) (domain.Record, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &CorruptedStorageError{Location: location, Reason: "record is not valid JSON", Err: err}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &CorruptedStorageError{
			Location: location,
			Reason:   fmt.Sprintf("record is %s, not an object", jsonKind(raw)),
		}
	}
	return domain.Record(obj), nil
}

// EncodeCollection serializes entries in the canonical persisted format:
// an indented JSON array, non-ASCII text kept as is.
func EncodeCollection(entries []*domain.Entry) ([]byte, error) {
	if entries == nil {
		entries = []*domain.Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeRecord serializes a single entry.
func EncodeRecord(entry *domain.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return nil, fmt.Errorf("failed to encode entry %s: %w", entry.ID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "a list"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
