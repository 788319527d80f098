package protocol

import (
	"encoding/json"

	"lostcities-calculator/internal/game"
	"lostcities-calculator/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "toggle_card", "state")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// Message types.
const (
	TypeToggleCard    = "toggle_card"
	TypeCycleWager    = "cycle_wager"
	TypeSelectPlayer  = "select_player"
	TypeSelectRound   = "select_round"
	TypeUpdateSetting = "update_setting"
	TypeReset         = "reset"
	TypeResetSettings = "reset_settings"
	TypePing          = "ping"

	TypeState = "state"
	TypeError = "error"
	TypePong  = "pong"
)

// --- Client -> Server Payload Structs ---

type ToggleCardPayload struct {
	Card string `json:"card"` // e.g. "blue-7"
}

type CycleWagerPayload struct {
	Suit string `json:"suit"`
}

type SelectPlayerPayload struct {
	Player string `json:"player"` // "Player 1" or "Player 2"
}

type SelectRoundPayload struct {
	Round string `json:"round"` // "Round 1" to "Round 3"
}

type UpdateSettingPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// --- Server -> Client Payload Structs ---

type PlayerInfo struct {
	Player shared.Player    `json:"player"`
	Name   string           `json:"name"`
	Score  game.PlayerScore `json:"score"`
}

type SettingsInfo struct {
	Player1Name    string `json:"player1Name"`
	Player2Name    string `json:"player2Name"`
	EnableLongGame bool   `json:"enableLongGame"`
}

// StatePayload is everything the UI needs to render.
type StatePayload struct {
	Player        shared.Player           `json:"player"`
	Round         shared.Round            `json:"round"`
	Suits         []shared.Suit           `json:"suits"`
	Current       game.RoundState         `json:"current"`
	SuitScores    []game.SuitScore        `json:"suit_scores"`
	DisabledCards []shared.ExpeditionCard `json:"disabled_cards"`
	Players       [2]PlayerInfo           `json:"players"`
	Settings      SettingsInfo            `json:"settings"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}
