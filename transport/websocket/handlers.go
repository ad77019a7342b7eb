package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/usecase"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect", "session", conn.sessionID)

	player, err := that.uGame.GetOrCreatePlayer(ctx, conn.sessionID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendError(conn, msg.Action, "failed to create a new player")
	}

	payload := ResponsePayload{Player: player}

	if player.InGame() {
		game, err := that.uGame.GetGame(ctx, player.ID)
		if err != nil {
			log.Warn("failed to restore game", "gameID", player.GameID, "error", err)
		} else {
			payload.Game = game
		}
	}

	if err = that.sendMessage(conn, msg.Action, payload); err != nil {
		return err
	}

	log.Info("successfully connected player", "player", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame", "session", conn.sessionID)

	var req NewGameRequest
	if err := that.decodePayload(msg, &req); err != nil {
		log.Warn("bad request", "error", err)
		return that.sendError(conn, msg.Action, "mark must be X or O")
	}

	game, err := that.uGame.NewGame(ctx, conn.sessionID, req.Mark)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendError(conn, msg.Action, errorMessage(err, "failed to create a new game"))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "session", conn.sessionID)

	var req TurnRequest
	if err := that.decodePayload(msg, &req); err != nil {
		log.Warn("bad request", "error", err)
		return that.sendError(conn, msg.Action, "cell must be between 0 and 8")
	}

	game, err := that.uGame.MakeTurn(ctx, conn.sessionID, *req.Cell)
	if err != nil {
		log.Warn("failed to make turn", "cell", *req.Cell, "error", err)
		return that.sendError(conn, msg.Action, errorMessage(err, "failed to make turn"))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	game, err := that.uGame.GetGame(ctx, conn.sessionID)
	if err != nil {
		return that.sendError(conn, msg.Action, errorMessage(err, "failed to get the game"))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

// errorMessage exposes domain errors to the client and hides the rest behind fallback.
func errorMessage(err error, fallback string) string {
	for _, known := range []error{
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrGameFinished,
		apperror.ErrGameIsNotStarted,
		apperror.ErrNoActiveGames,
		apperror.ErrInvalidMark,
		entity.ErrInvalidCell,
		usecase.ErrGameAlreadyExists,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return fallback
}
