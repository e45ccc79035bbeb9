package redis

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/gomoku"
	"github.com/rocketscienceinc/gomoku/internal/inputmap"
	"github.com/rocketscienceinc/gomoku/internal/usecase"
	"github.com/rocketscienceinc/gomoku/testing/suite"
)

func TestPublisher_PublishAndListen(t *testing.T) {
	ctx, st := suite.New(t)

	publisher := NewPublisher(st.Storage, "gomoku:test")

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go publisher.Run(listenCtx, st.Logger)

	ready := make(chan struct{})
	received := make(chan *entity.Event, 1)
	done := make(chan error, 1)

	go func() {
		done <- publisher.Listen(listenCtx, st.Logger, ready, func(event *entity.Event) {
			received <- event
		})
	}()

	select {
	case <-ready:
	case <-time.After(10 * time.Second):
		t.Fatal("subscription was not established")
	}

	// Given: a game with one stone
	engine, err := gomoku.New(gomoku.DefaultBoardSize)
	require.NoError(t, err)
	require.NoError(t, engine.PlaceStone(7, 7))

	event := &entity.Event{
		SessionID: "session-1",
		Action:    entity.ActionPlace,
		Game:      engine.Snapshot(),
		At:        time.Now().UTC().Truncate(time.Millisecond),
	}

	// When: the event is published
	require.NoError(t, publisher.Publish(ctx, event))

	// Then: the listener receives the same event
	select {
	case got := <-received:
		assert.Equal(t, event.SessionID, got.SessionID)
		assert.Equal(t, event.Action, got.Action)
		assert.Equal(t, entity.PlayerBlack, got.Game.Board[7][7])
		assert.Equal(t, entity.PlayerWhite, got.Game.CurrentPlayer)
		assert.True(t, event.At.Equal(got.At))
	case <-time.After(10 * time.Second):
		t.Fatal("event was not received")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNew(t *testing.T) {
	t.Run("Connects to a running server", func(t *testing.T) {
		ctx, st := suite.New(t)

		client, err := New(ctx, st.Storage.Options().Addr)

		require.NoError(t, err)
		require.NoError(t, client.Close())
	})

	t.Run("Fails when nothing listens", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		client, err := New(ctx, "127.0.0.1:1")

		require.Error(t, err)
		assert.Nil(t, client)
	})
}

// stalledServer accepts connections and never answers, like a hung Redis.
func stalledServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)

	go func() {
		for {
			conn, acceptErr := listener.Accept()
			if acceptErr != nil {
				return
			}

			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()

	t.Cleanup(func() {
		_ = listener.Close()

		mu.Lock()
		defer mu.Unlock()

		for _, conn := range conns {
			_ = conn.Close()
		}
	})

	return listener.Addr().String()
}

func TestPublisher_StalledRedisDoesNotBlockSession(t *testing.T) {
	// Given: a session publishing to a Redis that never replies
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := redis.NewClient(&redis.Options{Addr: stalledServer(t)})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	publisher := NewPublisher(client, "gomoku:stalled")
	go publisher.Run(ctx, logger)

	engine, err := gomoku.New(gomoku.DefaultBoardSize)
	require.NoError(t, err)

	mapper := inputmap.NewCanvasMapper(gomoku.DefaultBoardSize, inputmap.DefaultCanvasWidth, inputmap.DefaultCanvasMargin)
	session := usecase.NewGameSession(logger, engine, mapper, publisher)

	// When: more changes are made than the queue holds
	started := time.Now()

	for i := 0; i < queueSize*2; i++ {
		_, err = session.PlaceStone(ctx, 7, 7)
		require.NoError(t, err)
		_, err = session.Undo(ctx)
		require.NoError(t, err)
	}

	game := session.State()

	// Then: every call returned without waiting on Redis
	assert.Less(t, time.Since(started), time.Second)
	assert.Zero(t, game.MoveCount)
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("Drops events once the queue is full", func(t *testing.T) {
		// Given: a publisher whose queue is never drained
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
		t.Cleanup(func() { _ = client.Close() })

		publisher := NewPublisher(client, "gomoku:full")
		event := &entity.Event{SessionID: "session-1", Action: entity.ActionReset}

		for i := 0; i < queueSize; i++ {
			require.NoError(t, publisher.Publish(context.Background(), event))
		}

		// When: one more event is published
		err := publisher.Publish(context.Background(), event)

		// Then: it is rejected without blocking
		require.ErrorIs(t, err, ErrQueueFull)
		assert.Len(t, publisher.queue, queueSize)
	})
}
