package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-negamax/pkg/negamax"
)

var (
	ErrNotBotTurn       = errors.New("it's not the bot's turn")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) error
	Analyze(ctx context.Context, board [9]string, turn string) (*entity.Analysis, error)
}

type analysisRepo interface {
	Save(ctx context.Context, analysis *entity.Analysis) error
	Get(ctx context.Context, board, turn string, depth int) (*entity.Analysis, error)
}

type searchMetrics interface {
	ObserveSearch(nodes, tableHits int64, tableEntries int, elapsed time.Duration)
	CacheHit()
	CacheMiss()
	BotMove()
	TableReset()
}

type BotOptions struct {
	Depth           int
	TableMaxEntries int
	Timeout         time.Duration
}

type botService struct {
	logger  *slog.Logger
	options BotOptions

	analysisRepo analysisRepo
	metrics      searchMetrics

	// mu guards searcher, whose transposition table is shared by every game.
	mu       sync.Mutex
	searcher *negamax.Searcher[tictactoe.TicTacToe]

	pick func(n int) int
}

func NewBotService(logger *slog.Logger, options BotOptions, analysisRepo analysisRepo, metrics searchMetrics) BotService {
	if options.Depth <= 0 || options.Depth > tictactoe.Size {
		options.Depth = tictactoe.Size
	}

	return &botService{
		logger:       logger.With("component", "bot"),
		options:      options,
		analysisRepo: analysisRepo,
		metrics:      metrics,
		searcher:     negamax.NewSearcher[tictactoe.TicTacToe](nil),
		pick:         rand.Intn,
	}
}

// MakeTurn plays one of the best moves for the bot.
func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) error {
	if !game.IsBotTurn() {
		return ErrNotBotTurn
	}

	analysis, err := that.Analyze(ctx, game.Board, game.BotMark)
	if err != nil {
		return fmt.Errorf("failed to analyze board: %w", err)
	}

	if len(analysis.BestCells) == 0 {
		return ErrNoAvailableMoves
	}

	chosenCell := analysis.BestCells[that.pick(len(analysis.BestCells))]

	if err = game.MakeTurn(game.BotMark, chosenCell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.metrics.BotMove()

	that.logger.Debug("bot played", "gameID", game.ID, "cell", chosenCell, "score", analysis.Score)

	return nil
}

// Analyze returns the best cells for turn on board, using the cache when possible.
func (that *botService) Analyze(ctx context.Context, board [9]string, turn string) (*entity.Analysis, error) {
	log := that.logger.With("method", "Analyze")

	if !entity.IsMark(turn) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, turn)
	}

	state, err := tictactoe.FromBoard(board)
	if err != nil {
		return nil, fmt.Errorf("failed to read board: %w", err)
	}

	if state.IsOver() {
		return nil, apperror.ErrGameFinished
	}

	depth := min(that.options.Depth, state.EmptyCells())

	if cached := that.cached(ctx, state.Key(), turn, depth); cached != nil {
		return cached, nil
	}

	analysis, err := that.search(ctx, state, turn, depth)
	if err != nil {
		return nil, err
	}

	if that.analysisRepo != nil {
		if err = that.analysisRepo.Save(ctx, analysis); err != nil {
			log.Error("failed to cache analysis", "board", analysis.Board, "error", err)
		}
	}

	return analysis, nil
}

func (that *botService) cached(ctx context.Context, board, turn string, depth int) *entity.Analysis {
	if that.analysisRepo == nil {
		return nil
	}

	analysis, err := that.analysisRepo.Get(ctx, board, turn, depth)
	if err != nil {
		if !errors.Is(err, repository.ErrAnalysisNotFound) {
			that.logger.Warn("analysis cache unavailable", "error", err)
		}

		that.metrics.CacheMiss()
		return nil
	}

	that.metrics.CacheHit()
	return analysis
}

func (that *botService) search(ctx context.Context, state tictactoe.TicTacToe, turn string, depth int) (*entity.Analysis, error) {
	player, err := tictactoe.PlayerOf(turn)
	if err != nil {
		return nil, fmt.Errorf("failed to read turn: %w", err)
	}

	if that.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.options.Timeout)
		defer cancel()
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.searcher.ResetStats()
	started := time.Now()

	moves, score, err := that.searcher.BestMoves(ctx, state, player, depth)
	if errors.Is(err, negamax.ErrNoMoves) {
		return nil, ErrNoAvailableMoves
	}
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	stats := that.searcher.Stats()
	table := that.searcher.Table()
	that.metrics.ObserveSearch(stats.Nodes, stats.TableHits, table.Len(), time.Since(started))

	if that.options.TableMaxEntries > 0 && table.Len() > that.options.TableMaxEntries {
		table.Reset()
		that.metrics.TableReset()
	}

	cells := make([]int, 0, len(moves))
	for _, move := range moves {
		if cell, ok := tictactoe.MoveBetween(state, move); ok {
			cells = append(cells, cell)
		}
	}

	return &entity.Analysis{
		Board:     state.Key(),
		Turn:      turn,
		Depth:     depth,
		Score:     score,
		BestCells: cells,
	}, nil
}
