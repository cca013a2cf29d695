package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// --- Client-to-Server message payloads ---

// SelectCardMsg is sent by the client when the player clicks a card.
type SelectCardMsg struct {
	Type  string `json:"type"`
	Index *int   `json:"index"`
}

// RestartMsg is sent by the client to deal a new game.
type RestartMsg struct {
	Type string `json:"type"`
}

// AutoplayMsg is sent by the client to toggle demo mode.
type AutoplayMsg struct {
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}
