package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
)

const (
	actionConnect = "connect"
	actionNewGame = "game:new"
	actionTurn    = "game:turn"
	actionState   = "game:state"
)

// Message is the envelope of every frame, in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type NewGameRequest struct {
	Mark string `json:"mark" validate:"omitempty,oneof=X O"`
}

type TurnRequest struct {
	Cell *int `json:"cell" validate:"required,min=0,max=8"`
}

type ResponsePayload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *entity.Game   `json:"game,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *connection, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.send(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to send %s response: %w", action, err)
	}

	return nil
}

func (that *Server) sendError(conn *connection, action, message string) error {
	return that.sendMessage(conn, action, ResponsePayload{Error: message})
}

// decodePayload unmarshals and validates the payload of a request. An empty payload leaves v untouched.
func (that *Server) decodePayload(message *Message, v any) error {
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, v); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if err := that.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	return nil
}
