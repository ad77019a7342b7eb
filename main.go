package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-negamax/internal"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/config"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-negamax/pkg/negamax"
)

// main - is the entry point of the application. It wires the cobra commands and runs the selected one.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the game servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(configPath)
			logger := initLogger(conf)

			if err := app.RunApp(cmd.Context(), logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}
			return nil
		},
	}
	serve.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to the config file")

	root := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Tic-tac-toe against a negamax bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newSolveCmd())

	return root
}

func newSolveCmd() *cobra.Command {
	var (
		board string
		depth int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Print the value and the best cells of a position",
		Example: `  tictactoe solve --board "XX./OO./..."
  tictactoe solve --board "........." --depth 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := tictactoe.Parse(board)
			if err != nil {
				return fmt.Errorf("failed to parse board: %w", err)
			}

			player := state.Turn()
			if depth <= 0 || depth > state.EmptyCells() {
				depth = state.EmptyCells()
			}

			table := negamax.NewTable[tictactoe.TicTacToe]()
			searcher := negamax.NewSearcher(table)

			moves, score, err := searcher.BestMoves(cmd.Context(), state, player, depth)
			if errors.Is(err, negamax.ErrNoMoves) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\ngame over, value %d\n", state, state.Value())
				return nil
			}
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			cells := make([]int, 0, len(moves))
			for _, move := range moves {
				if cell, ok := tictactoe.MoveBetween(state, move); ok {
					cells = append(cells, cell)
				}
			}

			stats := searcher.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nturn %s, depth %d\nscore %d\nbest cells %v\nnodes %d, table hits %d, entries %d\n",
				state, tictactoe.MarkOf(player), depth, score, cells, stats.Nodes, stats.TableHits, table.Len())

			return nil
		},
	}
	cmd.Flags().StringVarP(&board, "board", "b", ".........", "board as nine cells of X, O and .")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "search depth, 0 searches to the end")

	return cmd
}

// initialize config, falling back to the environment when there is no file.
func initConfig(path string) *config.Config {
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}
		path = filepath.Join(baseDir, path)
	}

	if _, err := os.Stat(path); err != nil {
		return config.MustLoadEnv()
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
