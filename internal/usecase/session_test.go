package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/gomoku"
	"github.com/rocketscienceinc/gomoku/internal/inputmap"
	mockedUseCase "github.com/rocketscienceinc/gomoku/mocks/usecase"
)

var errRedisDown = errors.New("redis down")

func newSession(t *testing.T, publishers ...Publisher) *GameSession {
	t.Helper()

	return newSessionWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)), publishers...)
}

func newSessionWithLogger(t *testing.T, logger *slog.Logger, publishers ...Publisher) *GameSession {
	t.Helper()

	engine, err := gomoku.New(gomoku.DefaultBoardSize)
	require.NoError(t, err)

	mapper := inputmap.NewCanvasMapper(gomoku.DefaultBoardSize, inputmap.DefaultCanvasWidth, inputmap.DefaultCanvasMargin)

	return NewGameSession(logger, engine, mapper, publishers...)
}

func eventWith(action entity.Action) interface{} {
	return mock.MatchedBy(func(event *entity.Event) bool {
		return event.Action == action && event.Game != nil && event.SessionID != ""
	})
}

type countingPublisher struct {
	events atomic.Int64
}

func (that *countingPublisher) Publish(_ context.Context, _ *entity.Event) error {
	that.events.Add(1)
	return nil
}

func TestGameSession_PlaceStone(t *testing.T) {
	ctx := context.Background()

	t.Run("Publishes the new state", func(t *testing.T) {
		// Given: a session with a mocked publisher
		publisher := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, publisher)

		var published *entity.Event
		publisher.EXPECT().
			Publish(mock.Anything, eventWith(entity.ActionPlace)).
			Run(func(_ context.Context, event *entity.Event) { published = event }).
			Return(nil).
			Once()

		// When: Black plays the center
		game, err := session.PlaceStone(ctx, 7, 7)

		// Then: the returned and published games show the stone and White to move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerBlack, game.Board[7][7])
		assert.Equal(t, entity.PlayerWhite, game.CurrentPlayer)
		require.NotNil(t, published)
		assert.Equal(t, session.ID(), published.SessionID)
		assert.Equal(t, game, published.Game)
		assert.False(t, published.At.IsZero())
	})

	t.Run("Rejected placement is not published", func(t *testing.T) {
		// Given: a session where (7,7) is taken
		publisher := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, publisher)

		publisher.EXPECT().
			Publish(mock.Anything, eventWith(entity.ActionPlace)).
			Return(nil).
			Once()

		_, err := session.PlaceStone(ctx, 7, 7)
		require.NoError(t, err)

		// When: the same cell is played again
		game, err := session.PlaceStone(ctx, 7, 7)

		// Then: the rejection reason is returned with the unchanged game
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, 1, game.MoveCount)
		assert.Equal(t, entity.PlayerWhite, game.CurrentPlayer)
	})

	t.Run("Publisher failure does not fail the move", func(t *testing.T) {
		// Given: a publisher that always fails and one that works
		failing := mockedUseCase.NewMockPublisher(t)
		working := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, failing, working)

		failing.EXPECT().Publish(mock.Anything, mock.Anything).Return(errRedisDown).Once()
		working.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

		// When: a stone is placed
		game, err := session.PlaceStone(ctx, 0, 0)

		// Then: the move succeeds and the second publisher still gets the event
		require.NoError(t, err)
		assert.Equal(t, 1, game.MoveCount)
	})
}

func TestGameSession_Click(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps the canvas point to the nearest cell", func(t *testing.T) {
		// Given: a session on the default 600px canvas
		publisher := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, publisher)

		publisher.EXPECT().Publish(mock.Anything, eventWith(entity.ActionPlace)).Return(nil).Once()

		// When: clicking near the center
		game, err := session.Click(ctx, 305, 296)

		// Then: the center cell holds Black's stone
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerBlack, game.Board[7][7])
	})

	t.Run("Click outside the board is rejected", func(t *testing.T) {
		// Given: a session with a publisher that expects nothing
		publisher := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, publisher)

		// When: clicking in the corner of the canvas
		game, err := session.Click(ctx, 1, 1)

		// Then: ErrOutOfBounds is returned and nothing is published
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Zero(t, game.MoveCount)
	})
}

func TestGameSession_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Undo, redo and reset are published with their action", func(t *testing.T) {
		// Given: a session with one stone
		publisher := mockedUseCase.NewMockPublisher(t)
		session := newSession(t, publisher)

		publisher.EXPECT().Publish(mock.Anything, eventWith(entity.ActionPlace)).Return(nil).Once()
		publisher.EXPECT().Publish(mock.Anything, eventWith(entity.ActionUndo)).Return(nil).Once()
		publisher.EXPECT().Publish(mock.Anything, eventWith(entity.ActionRedo)).Return(nil).Once()
		publisher.EXPECT().Publish(mock.Anything, eventWith(entity.ActionReset)).Return(nil).Once()

		_, err := session.PlaceStone(ctx, 3, 3)
		require.NoError(t, err)

		// When: the move is undone
		game, err := session.Undo(ctx)

		// Then: the board is empty and Black is to move
		require.NoError(t, err)
		assert.Zero(t, game.MoveCount)
		assert.True(t, game.CanRedo)

		// When: the move is redone
		game, err = session.Redo(ctx)

		// Then: the stone is back
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerBlack, game.Board[3][3])

		// When: the game is reset
		game, err = session.Reset(ctx)

		// Then: the game starts over
		require.NoError(t, err)
		assert.Zero(t, game.MoveCount)
		assert.False(t, game.CanRedo)
	})

	t.Run("Undo with nothing to undo", func(t *testing.T) {
		session := newSession(t)

		_, err := session.Undo(ctx)

		require.ErrorIs(t, err, apperror.ErrNothingToUndo)
	})

	t.Run("Late subscribers receive following events", func(t *testing.T) {
		// Given: a session with a subscriber added after construction
		session := newSession(t)
		publisher := &countingPublisher{}
		session.Subscribe(publisher)

		// When: two stones are placed
		_, err := session.PlaceStone(ctx, 1, 1)
		require.NoError(t, err)
		_, err = session.PlaceStone(ctx, 2, 2)
		require.NoError(t, err)

		// Then: both were published
		assert.EqualValues(t, 2, publisher.events.Load())
	})
}

func TestGameSession_ConcurrentCallers(t *testing.T) {
	// Given: one session shared by many goroutines
	publisher := &countingPublisher{}
	session := newSession(t, publisher)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
	)

	// When: every cell is played concurrently, some twice
	for i := 0; i < gomoku.DefaultBoardSize*gomoku.DefaultBoardSize*2; i++ {
		wg.Add(1)

		go func(cell int) {
			defer wg.Done()

			cell %= gomoku.DefaultBoardSize * gomoku.DefaultBoardSize
			if _, err := session.PlaceStone(ctx, cell/gomoku.DefaultBoardSize, cell%gomoku.DefaultBoardSize); err == nil {
				successes.Add(1)
			}

			if cell%7 == 0 {
				_, _ = session.Undo(ctx)
			}
		}(i)
	}

	wg.Wait()

	// Then: the history matches the board and every change was published once
	game := session.State()
	stones := 0
	for _, row := range game.Board {
		for _, cell := range row {
			if cell != entity.NoPlayer {
				stones++
			}
		}
	}

	assert.Equal(t, game.MoveCount, stones)
	assert.Len(t, game.History, stones)
	assert.GreaterOrEqual(t, publisher.events.Load(), successes.Load())
}

func TestGameSession_BoardLog(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantBoard bool
	}{
		{name: "Board is logged at debug level", level: slog.LevelDebug, wantBoard: true},
		{name: "Board is skipped above debug level", level: slog.LevelInfo, wantBoard: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a session logging at the given level
			var out bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: tt.level}))
			session := newSessionWithLogger(t, logger)

			// When: a stone is placed
			_, err := session.PlaceStone(context.Background(), 7, 7)
			require.NoError(t, err)

			// Then: the change is logged and the board only at debug level
			assert.Contains(t, out.String(), `"msg":"game updated"`)
			assert.Equal(t, tt.wantBoard, strings.Contains(out.String(), `"grid"`))
		})
	}
}
