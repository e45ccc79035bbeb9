package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
)

var errMissingCoordinates = errors.New("both coordinates are required")

type gameSession interface {
	State() *entity.Game
	PlaceStone(ctx context.Context, row, col int) (*entity.Game, error)
	Click(ctx context.Context, x, y float64) (*entity.Game, error)
	Undo(ctx context.Context) (*entity.Game, error)
	Redo(ctx context.Context) (*entity.Game, error)
	Reset(ctx context.Context) (*entity.Game, error)
}

type PlaceStoneRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ClickRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type GameResponse struct {
	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

type Handlers struct {
	logger  *slog.Logger
	session gameSession
}

func NewHandlers(logger *slog.Logger, session gameSession) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

func (that *Handlers) GetGame(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, GameResponse{Game: that.session.State()})
}

func (that *Handlers) PlaceStone(w http.ResponseWriter, r *http.Request) {
	var req PlaceStoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: "invalid payload"})
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: errMissingCoordinates.Error()})
		return
	}

	game, err := that.session.PlaceStone(r.Context(), *req.Row, *req.Col)
	that.writeResult(w, game, err)
}

func (that *Handlers) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: "invalid payload"})
		return
	}

	if req.X == nil || req.Y == nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: errMissingCoordinates.Error()})
		return
	}

	game, err := that.session.Click(r.Context(), *req.X, *req.Y)
	that.writeResult(w, game, err)
}

func (that *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	game, err := that.session.Undo(r.Context())
	that.writeResult(w, game, err)
}

func (that *Handlers) Redo(w http.ResponseWriter, r *http.Request) {
	game, err := that.session.Redo(r.Context())
	that.writeResult(w, game, err)
}

func (that *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	game, err := that.session.Reset(r.Context())
	that.writeResult(w, game, err)
}

func (that *Handlers) writeResult(w http.ResponseWriter, game *entity.Game, err error) {
	if err == nil {
		that.writeJSON(w, http.StatusOK, GameResponse{Game: game})
		return
	}

	that.writeJSON(w, statusFor(err), GameResponse{Game: game, Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload GameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrOutOfBounds):
		return http.StatusUnprocessableEntity
	case apperror.IsRejection(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
