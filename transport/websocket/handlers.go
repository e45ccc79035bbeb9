package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
)

var errMissingCoordinates = errors.New("both coordinates are required")

func (that *Server) handleMessage(ctx context.Context, c *client, msg *Message) {
	log := that.logger.With("method", "handleMessage", "action", msg.Action)

	handle, ok := that.handlers[msg.Action]
	if !ok {
		log.Warn("unknown action")
		that.reply(c, actionError, Payload{Error: fmt.Sprintf("unknown action %q", msg.Action)})
		return
	}

	var payload Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Warn("failed to unmarshal payload", "error", err)
			that.reply(c, msg.Action, Payload{Error: "invalid payload"})
			return
		}
	}

	game, err := handle(ctx, &payload)
	if err != nil {
		if !apperror.IsRejection(err) && !errors.Is(err, errMissingCoordinates) {
			log.Error("failed to handle message", "error", err)
		}
		that.reply(c, msg.Action, Payload{Game: game, Error: err.Error()})
		return
	}

	that.reply(c, msg.Action, Payload{Game: game})
}

func (that *Server) handleState(_ context.Context, _ *Payload) (*entity.Game, error) {
	return that.session.State(), nil
}

func (that *Server) handlePlace(ctx context.Context, payload *Payload) (*entity.Game, error) {
	if payload.Row == nil || payload.Col == nil {
		return that.session.State(), errMissingCoordinates
	}

	return that.session.PlaceStone(ctx, *payload.Row, *payload.Col)
}

func (that *Server) handleClick(ctx context.Context, payload *Payload) (*entity.Game, error) {
	if payload.X == nil || payload.Y == nil {
		return that.session.State(), errMissingCoordinates
	}

	return that.session.Click(ctx, *payload.X, *payload.Y)
}

func (that *Server) handleUndo(ctx context.Context, _ *Payload) (*entity.Game, error) {
	return that.session.Undo(ctx)
}

func (that *Server) handleRedo(ctx context.Context, _ *Payload) (*entity.Game, error) {
	return that.session.Redo(ctx)
}

func (that *Server) handleReset(ctx context.Context, _ *Payload) (*entity.Game, error) {
	return that.session.Reset(ctx)
}
