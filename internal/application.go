package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/config"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/service"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-negamax/transport/rest"
	"github.com/rocketscienceinc/tictactoe-negamax/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs both servers until ctx is cancelled or one of them fails.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	analysisRepo := repository.NewAnalysisRepository(redisStorage.Connection, conf.Search.CacheTTL)

	bot := service.NewBotService(logger, service.BotOptions{
		Depth:           conf.Search.Depth,
		TableMaxEntries: conf.Search.TableMaxEntries,
		Timeout:         conf.Search.Timeout,
	}, analysisRepo, metrics.NewSearch(registry))

	gameUseCase := usecase.NewGameManager(logger, playerRepo, gameRepo, bot)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.New(logger, gameUseCase, registry).Start(groupCtx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if err := websocket.New(logger, gameUseCase).Start(groupCtx, conf.SocketPort); err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
