package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/entity"
)

type stubAnalyzer struct {
	analysis *entity.Analysis
	err      error

	board [9]string
	turn  string
}

func (that *stubAnalyzer) Analyze(_ context.Context, board [9]string, turn string) (*entity.Analysis, error) {
	that.board, that.turn = board, turn
	return that.analysis, that.err
}

func newTestServer(analyzer analyzer) http.Handler {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

	return New(logger, analyzer, reg).Handler()
}

func TestServer_Ping(t *testing.T) {
	handler := newTestServer(&stubAnalyzer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	handler := newTestServer(&stubAnalyzer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total")
}

func TestServer_Analyze(t *testing.T) {
	t.Run("Returns the analysis", func(t *testing.T) {
		// Given: an analyzer with a known answer
		stub := &stubAnalyzer{analysis: &entity.Analysis{Board: "XX.OO....", Turn: "X", Score: 6, BestCells: []int{2}}}
		handler := newTestServer(stub)

		// When: posting the board
		body := `{"board":["X","X","","O","O","","","",""],"turn":"X"}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

		// Then: the analysis is returned as json
		require.Equal(t, http.StatusOK, rec.Code)

		var analysis entity.Analysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
		assert.Equal(t, []int{2}, analysis.BestCells)
		assert.Equal(t, entity.PlayerX, stub.turn)
		assert.Equal(t, entity.PlayerO, stub.board[3])
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		handler := newTestServer(&stubAnalyzer{})

		body := `{"board":["Z","","","","","","","",""],"turn":"X"}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects a missing turn", func(t *testing.T) {
		handler := newTestServer(&stubAnalyzer{})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"board":[]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Finished board", func(t *testing.T) {
		handler := newTestServer(&stubAnalyzer{err: apperror.ErrGameFinished})

		body := `{"board":["X","X","X","O","O","","","",""],"turn":"O"}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
