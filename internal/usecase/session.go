package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/gomoku"
	"github.com/rocketscienceinc/gomoku/internal/inputmap"
	"github.com/rocketscienceinc/gomoku/internal/render"
)

// Publisher receives an event after every state change of a session.
// Publish is called with the session lock held and must not call back into the session.
type Publisher interface {
	Publish(ctx context.Context, event *entity.Event) error
}

// GameSession is the single entry point to one engine. Every front end goes
// through it, so all calls into the engine are serialized.
type GameSession struct {
	logger *slog.Logger
	id     string
	mapper inputmap.Mapper
	now    func() time.Time

	mu         sync.Mutex
	engine     *gomoku.Engine
	publishers []Publisher
}

func NewGameSession(logger *slog.Logger, engine *gomoku.Engine, mapper inputmap.Mapper, publishers ...Publisher) *GameSession {
	id := uuid.NewString()

	return &GameSession{
		logger:     logger.With("component", "session", "sessionID", id),
		id:         id,
		mapper:     mapper,
		now:        time.Now,
		engine:     engine,
		publishers: publishers,
	}
}

func (that *GameSession) ID() string {
	return that.id
}

// Subscribe registers a publisher for all following events.
func (that *GameSession) Subscribe(publisher Publisher) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.publishers = append(that.publishers, publisher)
}

// State returns a snapshot of the current game.
func (that *GameSession) State() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.engine.Snapshot()
}

func (that *GameSession) PlaceStone(ctx context.Context, row, col int) (*entity.Game, error) {
	game, err := that.mutate(ctx, entity.ActionPlace, func(engine *gomoku.Engine) error {
		return engine.PlaceStone(row, col)
	})
	if err != nil {
		return game, fmt.Errorf("failed to place stone: %w", err)
	}

	return game, nil
}

// Click places a stone on the board cell nearest to canvas point (x, y).
func (that *GameSession) Click(ctx context.Context, x, y float64) (*entity.Game, error) {
	point, ok := that.mapper.Cell(x, y)
	if !ok {
		that.logger.Debug("click outside the board", "method", "Click", "x", x, "y", y)
		return that.State(), fmt.Errorf("failed to map click: %w: x %.1f y %.1f", apperror.ErrOutOfBounds, x, y)
	}

	return that.PlaceStone(ctx, point.Row, point.Col)
}

func (that *GameSession) Undo(ctx context.Context) (*entity.Game, error) {
	game, err := that.mutate(ctx, entity.ActionUndo, (*gomoku.Engine).Undo)
	if err != nil {
		return game, fmt.Errorf("failed to undo: %w", err)
	}

	return game, nil
}

func (that *GameSession) Redo(ctx context.Context) (*entity.Game, error) {
	game, err := that.mutate(ctx, entity.ActionRedo, (*gomoku.Engine).Redo)
	if err != nil {
		return game, fmt.Errorf("failed to redo: %w", err)
	}

	return game, nil
}

func (that *GameSession) Reset(ctx context.Context) (*entity.Game, error) {
	return that.mutate(ctx, entity.ActionReset, func(engine *gomoku.Engine) error {
		engine.Reset()
		return nil
	})
}

// mutate runs fn under the session lock and publishes the result when it succeeds.
func (that *GameSession) mutate(ctx context.Context, action entity.Action, fn func(engine *gomoku.Engine) error) (*entity.Game, error) {
	log := that.logger.With("action", action)

	that.mu.Lock()
	defer that.mu.Unlock()

	if err := fn(that.engine); err != nil {
		log.Debug("action rejected", "reason", err)
		return that.engine.Snapshot(), err
	}

	game := that.engine.Snapshot()

	log.Info("game updated", "moves", game.MoveCount, "status", game.Status, "turn", game.CurrentPlayer)
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("board", "grid", render.Text(game))
	}

	that.publish(ctx, &entity.Event{
		SessionID: that.id,
		Action:    action,
		Game:      game,
		At:        that.now(),
	})

	return game, nil
}

func (that *GameSession) publish(ctx context.Context, event *entity.Event) {
	for _, publisher := range that.publishers {
		if err := publisher.Publish(ctx, event); err != nil {
			that.logger.Error("failed to publish event", "action", event.Action, "error", err)
		}
	}
}
