package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/repository"
)

var ErrGameAlreadyExists = errors.New("game already exists")

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
	Analyze(ctx context.Context, board [9]string, turn string) (*entity.Analysis, error)
}

// GameManager runs games between players and the negamax bot.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	bot        botService
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		bot:        bot,
	}
}

// GetOrCreatePlayer - returns the player with playerID, creating it when it is unknown or empty.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.playerRepo.GetByID(ctx, playerID)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed get player by id: %w", err)
		}
	} else {
		playerID = pkg.GenerateNewSessionID()
	}

	player := &entity.Player{ID: playerID}
	if err := that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("could not create player: %w", err)
	}

	return player, nil
}

// NewGame - starts a game against the bot. An empty mark picks one at random; the bot opens when it plays X.
func (that *GameManager) NewGame(ctx context.Context, playerID, mark string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if player.InGame() {
		return nil, fmt.Errorf("%w: game id %s", ErrGameAlreadyExists, player.GameID)
	}

	if mark == "" {
		mark, _ = entity.GetRandomMarks()
	}

	game := entity.NewGame(pkg.GenerateGameID())
	if err = game.Seat(player.ID, mark); err != nil {
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.bot.MakeTurn(ctx, game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	player.GameID = game.ID
	player.Mark = mark
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed update player: %w", err)
	}

	return game, nil
}

// MakeTurn - plays the player's move and the bot's answer. A finished game is returned and released.
// When the bot fails to answer, the player's move is still saved and the bot answers on the next call.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	// a reply left pending by an earlier bot failure
	pending := game.IsBotTurn()
	if pending {
		if err = that.botReply(ctx, game); err != nil {
			return game, err
		}
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		switch {
		case errors.Is(err, apperror.ErrGameFinished):
			that.releaseGame(ctx, game, player)
		case pending:
			if saveErr := that.updateGame(ctx, game); saveErr != nil {
				that.logger.Error("failed to save bot reply", "gameID", game.ID, "error", saveErr)
			}
		}

		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.botReply(ctx, game); err != nil {
			return game, err
		}
	}

	if game.IsFinished() {
		that.releaseGame(ctx, game, player)

		return game, nil
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	return game, nil
}

// GetGame - returns the active game of the player.
func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed get game: %w", err)
	}

	return game, nil
}

// Analyze - returns the best moves for turn on an arbitrary board.
func (that *GameManager) Analyze(ctx context.Context, board [9]string, turn string) (*entity.Analysis, error) {
	analysis, err := that.bot.Analyze(ctx, board, turn)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze board: %w", err)
	}

	return analysis, nil
}

// botReply lets the bot move. On failure the game is saved as it is, so that the player's move survives.
func (that *GameManager) botReply(ctx context.Context, game *entity.Game) error {
	botErr := that.bot.MakeTurn(ctx, game)
	if botErr == nil {
		return nil
	}

	if err := that.updateGame(ctx, game); err != nil {
		that.logger.Error("failed to save game after bot failure", "gameID", game.ID, "error", err)
	}

	return fmt.Errorf("bot failed to make turn: %w", botErr)
}

// releaseGame deletes a finished game and frees the player for a new one.
func (that *GameManager) releaseGame(ctx context.Context, game *entity.Game, player *entity.Player) {
	log := that.logger.With("method", "releaseGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	player.LeaveGame()
	if err := that.updatePlayer(ctx, player); err != nil {
		log.Error("failed to update", "player", player.ID, "error", err)
	}

	log.Info("game finished", "winner", game.Winner)
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
