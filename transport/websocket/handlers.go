package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
)

// handleConnect returns the session, creating one when the client has none,
// together with its running game if there is one.
func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameManager.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	payloadResp := Payload{Player: player}

	if player.HasGame() {
		game, err := that.gameManager.GetGameByPlayerID(ctx, player.ID)
		switch {
		case errors.Is(err, apperror.ErrNoActiveGame):
			player.GameID = ""
		case err != nil:
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return that.sendErrorResponse(conn, msg.Action, err)
		default:
			payloadResp.Game = game.View()
		}
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return that.sendMessage(conn, msg.Action, payloadResp)
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payloadReq.Settings == nil {
		return that.sendErrorResponse(conn, msg.Action, errSettingsRequired)
	}

	game, err := that.gameManager.NewGame(ctx, payloadReq.Player.ID, *payloadReq.Settings)
	if err != nil {
		log.Info("failed to create game", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	payloadResp := Payload{
		Player: &entity.Player{ID: payloadReq.Player.ID, GameID: game.ID},
		Game:   game.View(),
	}

	return that.sendMessage(conn, msg.Action, payloadResp)
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	game, err := that.gameManager.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: game.View()})
}

func (that *Server) handleMove(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMove")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payloadReq.Move == nil {
		return that.sendErrorResponse(conn, msg.Action, errMoveRequired)
	}

	game, err := that.gameManager.MakeMove(ctx, payloadReq.Player.ID, *payloadReq.Move)
	if err != nil {
		log.Info("move rejected", "playerID", payloadReq.Player.ID, "move", payloadReq.Move.String(), "error", err)
		return that.sendGameError(conn, msg.Action, game, err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: game.View()})
}

func (that *Server) handleAIStep(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	game, err := that.gameManager.StepAI(ctx, payloadReq.Player.ID, payloadReq.Hint)
	if err != nil {
		return that.sendGameError(conn, msg.Action, game, err)
	}

	return that.sendMessage(conn, msg.Action, Payload{Game: game.View()})
}

// handleAutoPlay streams one message per AI turn until the run ends. A failed
// write ends the run.
func (that *Server) handleAutoPlay(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleAutoPlay")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	var writeErr error
	game, err := that.gameManager.AutoPlay(ctx, payloadReq.Player.ID, payloadReq.Hint, func(game *entity.Game) error {
		writeErr = that.sendMessage(conn, msg.Action, Payload{Game: game.View()})
		return writeErr
	})

	switch {
	case writeErr != nil:
		return writeErr
	case errors.Is(err, context.Canceled):
		return nil
	case err != nil:
		log.Info("autoplay not started", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendGameError(conn, msg.Action, game, err)
	}

	log.Info("autoplay finished", "gameID", game.ID, "gameOver", game.GameOver())

	return nil
}

func (that *Server) handleLeave(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleLeave")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if err = that.gameManager.EndGame(ctx, payloadReq.Player.ID); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	log.Info("player left the game", "playerID", payloadReq.Player.ID)

	return that.sendMessage(conn, msg.Action, Payload{Player: &entity.Player{ID: payloadReq.Player.ID}})
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return &payload, nil
}

// decodePlayerPayload decodes a payload that must name the session.
func decodePlayerPayload(msg *Message) (*Payload, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil || payload.Player.ID == "" {
		return nil, errPlayerRequired
	}

	return payload, nil
}
