package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
	"github.com/rocketscienceinc/hexbots-backend/internal/hexbots"
)

const writeWait = 10 * time.Second

const (
	actionConnect   = "connect"
	actionNewGame   = "game:new"
	actionGameState = "game:state"
	actionMove      = "game:move"
	actionAIStep    = "game:ai-step"
	actionAutoPlay  = "game:autoplay"
	actionLeave     = "game:leave"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
	errPlayerRequired   = errors.New("player is required")
	errSettingsRequired = errors.New("settings are required")
	errMoveRequired     = errors.New("move is required")
	errInternal         = errors.New("internal error")
)

// clientErrors are shown to the client as is. Anything else is reported as
// errInternal.
var clientErrors = []error{
	apperror.ErrGameOver,
	apperror.ErrNotHumanTurn,
	apperror.ErrNotAITurn,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrNoActiveGame,
	apperror.ErrUnknownMode,
	apperror.ErrUnknownModel,
	apperror.ErrNoAIModels,
	apperror.ErrInvalidPlayer,
	entity.ErrInvalidPlayerCount,

	errMalformedMessage,
	errUnknownAction,
	errPlayerRequired,
	errSettingsRequired,
	errMoveRequired,
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses. Requests fill the inputs of
// their action; responses carry the session, the rendered game, or an error.
type Payload struct {
	Player   *entity.Player    `json:"player,omitempty"`
	Settings *hexbots.Settings `json:"settings,omitempty"`
	Move     *entity.Move      `json:"move,omitempty"`
	Hint     string            `json:"hint,omitempty"`

	Game  *entity.GameView `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadBytes}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action string, err error) error {
	return that.sendGameError(conn, action, nil, err)
}

// sendGameError reports err together with the game as it stands, so the
// client can redraw after a rejected move.
func (that *Server) sendGameError(conn *websocket.Conn, action string, game *entity.Game, err error) error {
	payload := Payload{Error: errorText(err)}
	if game != nil {
		payload.Game = game.View()
	}

	if err = that.sendMessage(conn, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func errorText(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return errInternal.Error()
}
