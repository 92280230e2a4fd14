package repository

import (
	"encoding/json"
	"fmt"

	"goodwish-chatbot/internal/model"
)

// payload is the stored session document. It is an object so more session keys can be added later.
type payload struct {
	ChatHistory []model.Turn `json:"chat_history"`
}

// Encode serializes turns into the stored session document.
func Encode(turns []model.Turn) ([]byte, error) {
	if turns == nil {
		turns = []model.Turn{}
	}
	return json.Marshal(payload{ChatHistory: turns})
}

// Decode parses a stored session document. An empty document is an empty history.
func Decode(raw []byte) ([]model.Turn, error) {
	if len(raw) == 0 {
		return []model.Turn{}, nil
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if p.ChatHistory == nil {
		return []model.Turn{}, nil
	}
	return p.ChatHistory, nil
}
