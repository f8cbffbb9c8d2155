package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const codecLogPrefix = "message:codec"

// Decode parses JSON into m. Fields that m does not declare are dropped.
// Empty or whitespace-only input leaves m at its default value.
func Decode(data []byte, m Message) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("%s - failed to parse %s: %w", codecLogPrefix, m.MessageName(), err)
	}
	return nil
}

// Encode serializes m to indented JSON.
func Encode(m Message) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode %s: %w", codecLogPrefix, m.MessageName(), err)
	}
	return data, nil
}
