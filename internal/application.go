package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gomoku/internal/config"
	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/gomoku"
	"github.com/rocketscienceinc/gomoku/internal/inputmap"
	"github.com/rocketscienceinc/gomoku/internal/render"
	"github.com/rocketscienceinc/gomoku/internal/transport/redis"
	"github.com/rocketscienceinc/gomoku/internal/usecase"
	"github.com/rocketscienceinc/gomoku/transport/rest"
	"github.com/rocketscienceinc/gomoku/transport/tui"
	"github.com/rocketscienceinc/gomoku/transport/websocket"
)

var ErrWatchWithoutRedis = errors.New("watch mode needs redis.enabled")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Watch {
		return runWatcher(ctx, logger, conf, os.Stdout)
	}

	engine, err := gomoku.New(conf.Board.Size, gomoku.WithUndoAfterWin(conf.Board.UndoAfterWin))
	if err != nil {
		return fmt.Errorf("could not create game: %w", err)
	}

	mapper := inputmap.NewCanvasMapper(conf.Board.Size, conf.Canvas.Width, conf.Canvas.Margin)
	session := usecase.NewGameSession(logger, engine, mapper)

	if conf.Redis.Enabled {
		client, redisErr := redis.New(ctx, conf.Redis.GetRedisAddr())
		if redisErr != nil {
			return fmt.Errorf("could not connect to redis: %w", redisErr)
		}

		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				log.Error("could not close redis client", "error", closeErr)
			}
		}()

		publisher := redis.NewPublisher(client, conf.Redis.Channel)
		go publisher.Run(ctx, logger)

		session.Subscribe(publisher)
		log.Info("Publishing game events", "channel", conf.Redis.Channel)
	}

	wsServer := websocket.New(logger, session, conf.HTTP.OriginHosts()...)
	session.Subscribe(wsServer)
	defer wsServer.Close()

	router := rest.NewRouter(logger, rest.NewHandlers(logger, session), conf.HTTP.OriginHosts(), wsServer.Mount)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "addr", conf.HTTP.GetAddr())
		httpErrCh <- rest.Start(ctx, conf.HTTP.GetAddr(), router)
	}()

	if conf.TUI.Headless {
		select {
		case err = <-httpErrCh:
			if err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			log.Info("Application context canceled, shutting down")
			return <-httpErrCh
		}
	}

	ui := tui.New(logger, session, render.ParseLocale(conf.Locale))
	session.Subscribe(ui)

	return runWithUI(ctx, cancel, log, httpErrCh, ui.Run)
}

// runWithUI runs the terminal UI until the user quits or the HTTP server stops.
// An HTTP failure closes the UI and is returned.
func runWithUI(ctx context.Context, cancel context.CancelFunc, log *slog.Logger, httpErrCh <-chan error, runUI func(ctx context.Context) error) error {
	uiErrCh := make(chan error, 1)
	go func() {
		uiErrCh <- runUI(ctx)
	}()

	select {
	case err := <-httpErrCh:
		cancel()
		if uiErr := <-uiErrCh; uiErr != nil {
			log.Error("terminal ui error", "error", uiErr)
		}

		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	case uiErr := <-uiErrCh:
		cancel()
		if err := <-httpErrCh; err != nil {
			log.Error("HTTP server error", "error", err)
		}

		return uiErr
	}
}

// runWatcher prints every board published on the redis channel until ctx is done.
func runWatcher(ctx context.Context, logger *slog.Logger, conf *config.Config, out io.Writer) error {
	if !conf.Redis.Enabled {
		return ErrWatchWithoutRedis
	}

	log := logger.With("component", "watcher")
	locale := render.ParseLocale(conf.Locale)

	client, err := redis.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis: %w", err)
	}

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("could not close redis client", "error", closeErr)
		}
	}()

	log.Info("Watching game events", "channel", conf.Redis.Channel)

	return redis.NewPublisher(client, conf.Redis.Channel).Listen(ctx, logger, nil, func(event *entity.Event) {
		if event.Game == nil {
			return
		}

		fmt.Fprintf(out, "\n[%s] %s\n%s\n%s\n",
			event.SessionID, event.Action, render.Text(event.Game), render.StatusLine(locale, event.Game, event.Action))
	})
}
