package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// AnalysisRepository caches search results so that a position is only solved once.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis *entity.Analysis) error
	Get(ctx context.Context, board, turn string, depth int) (*entity.Analysis, error)
}

type dbAnalysis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisRepository - ttl of zero keeps entries forever.
func NewAnalysisRepository(client *redis.Client, ttl time.Duration) AnalysisRepository {
	return &dbAnalysis{
		client: client,
		ttl:    ttl,
	}
}

func analysisKey(board, turn string, depth int) string {
	return "analysis:" + board + ":" + turn + ":" + strconv.Itoa(depth)
}

func (that *dbAnalysis) Save(ctx context.Context, analysis *entity.Analysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	key := analysisKey(analysis.Board, analysis.Turn, analysis.Depth)
	if err = that.client.Set(ctx, key, analysisJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set analysis: %w", err)
	}

	return nil
}

func (that *dbAnalysis) Get(ctx context.Context, board, turn string, depth int) (*entity.Analysis, error) {
	response, err := that.client.Get(ctx, analysisKey(board, turn, depth)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, ErrAnalysisNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis entity.Analysis
	if err = json.Unmarshal(response, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	return &analysis, nil
}
