package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-negamax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-negamax/internal/tictactoe"
)

type analyzeRequest struct {
	Board [9]string `json:"board" validate:"dive,omitempty,oneof=X O"`
	Turn  string    `json:"turn" validate:"required,oneof=X O"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "analyzeHandler")

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	if err := that.validate.Struct(req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	analysis, err := that.analyzer.Analyze(r.Context(), req.Board, req.Turn)
	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		that.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, apperror.ErrInvalidMark), errors.Is(err, tictactoe.ErrInvalidMark):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error("failed to analyze board", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, analysis)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
