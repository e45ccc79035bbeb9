package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/gomoku/internal/apperror"
	"github.com/rocketscienceinc/gomoku/internal/entity"
	"github.com/rocketscienceinc/gomoku/internal/render"
)

const (
	pageBoard = "board"
	pageWon   = "won"
)

type gameSession interface {
	State() *entity.Game
	PlaceStone(ctx context.Context, row, col int) (*entity.Game, error)
	Undo(ctx context.Context) (*entity.Game, error)
	Redo(ctx context.Context) (*entity.Game, error)
	Reset(ctx context.Context) (*entity.Game, error)
}

// UI is the terminal front end of one game session.
type UI struct {
	logger  *slog.Logger
	session gameSession
	locale  render.Locale

	app    *tview.Application
	pages  *tview.Pages
	board  *boardView
	status *tview.TextView

	ctx       context.Context
	announced bool

	pendingMutex sync.Mutex
	pending      *entity.Event
}

func New(logger *slog.Logger, session gameSession, locale render.Locale) *UI {
	that := &UI{
		logger:  logger.With("component", "tui"),
		session: session,
		locale:  locale,
		app:     tview.NewApplication(),
		ctx:     context.Background(),
	}

	game := session.State()

	that.board = newBoardView(game, that.place)

	that.status = tview.NewTextView().SetDynamicColors(true)
	that.status.SetBorder(true)

	buttons := tview.NewForm().
		AddButton("Undo", func() { that.do(entity.ActionUndo, that.session.Undo) }).
		AddButton("Redo", func() { that.do(entity.ActionRedo, that.session.Redo) }).
		AddButton("Reset", func() { that.do(entity.ActionReset, that.session.Reset) }).
		AddButton("Quit", that.app.Stop)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(that.board, that.board.Height(), 0, true).
		AddItem(that.status, 3, 0, false).
		AddItem(buttons, 3, 0, false)

	centered := tview.NewFlex().
		AddItem(layout, max(that.board.Width(), 40), 0, true).
		AddItem(nil, 0, 1, false)

	that.pages = tview.NewPages().AddPage(pageBoard, centered, true, true)

	that.app.SetRoot(that.pages, true).SetFocus(that.board).EnableMouse(true)
	that.app.SetInputCapture(that.captureKeys)

	that.show(game, "")

	return that
}

// Run blocks until the user quits or ctx is canceled.
func (that *UI) Run(ctx context.Context) error {
	that.ctx = ctx

	go func() {
		<-ctx.Done()
		that.app.Stop()
	}()

	if err := that.app.Run(); err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}

	return nil
}

// Publish redraws the board after a change made by any front end.
func (that *UI) Publish(_ context.Context, event *entity.Event) error {
	that.pendingMutex.Lock()
	that.pending = event
	that.pendingMutex.Unlock()

	go that.app.QueueUpdateDraw(that.refresh)

	return nil
}

func (that *UI) refresh() {
	that.pendingMutex.Lock()
	event := that.pending
	that.pending = nil
	that.pendingMutex.Unlock()

	if event == nil {
		return
	}

	that.show(event.Game, event.Action)
}

func (that *UI) captureKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyRune {
		return event
	}

	if name, _ := that.pages.GetFrontPage(); name == pageWon {
		return event
	}

	switch event.Rune() {
	case 'u':
		that.do(entity.ActionUndo, that.session.Undo)
	case 'y':
		that.do(entity.ActionRedo, that.session.Redo)
	case 'r':
		that.do(entity.ActionReset, that.session.Reset)
	case 'q':
		that.app.Stop()
	default:
		return event
	}

	return nil
}

func (that *UI) place(row, col int) {
	that.do(entity.ActionPlace, func(ctx context.Context) (*entity.Game, error) {
		return that.session.PlaceStone(ctx, row, col)
	})
}

// do runs one session action and shows its result. Rejections leave the screen as it is.
func (that *UI) do(action entity.Action, fn func(ctx context.Context) (*entity.Game, error)) {
	log := that.logger.With("method", "do", "action", action)

	game, err := fn(that.ctx)
	if err != nil {
		if apperror.IsRejection(err) {
			log.Debug("action rejected", "reason", err)
			return
		}

		log.Error("action failed", "error", err)
		return
	}

	that.show(game, action)
}

func (that *UI) show(game *entity.Game, action entity.Action) {
	that.board.SetGame(game)
	that.board.SetTitle(fmt.Sprintf(" %s ", render.TurnLabel(that.locale, game)))
	that.status.SetText(render.StatusLine(that.locale, game, action))

	if game.IsWon() {
		if !that.announced {
			that.announced = true
			that.showWon(game)
		}
		return
	}

	that.announced = false

	if that.pages.HasPage(pageWon) {
		that.pages.RemovePage(pageWon)
		that.app.SetFocus(that.board)
	}
}

// showWon announces the winner once per finished game.
func (that *UI) showWon(game *entity.Game) {
	buttons := []string{"New Game", "Close"}
	if game.CanUndo {
		buttons = []string{"New Game", "Undo", "Close"}
	}

	modal := tview.NewModal().
		SetText(render.StatusLine(that.locale, game, "")).
		AddButtons(buttons).
		SetDoneFunc(func(_ int, label string) {
			that.pages.RemovePage(pageWon)
			that.app.SetFocus(that.board)

			switch label {
			case "New Game":
				that.do(entity.ActionReset, that.session.Reset)
			case "Undo":
				that.do(entity.ActionUndo, that.session.Undo)
			}
		})

	that.pages.AddPage(pageWon, modal, false, true)
	that.app.SetFocus(modal)
}
