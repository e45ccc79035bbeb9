// Package render turns engine snapshots into text for display surfaces.
package render

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"
)

type messages struct {
	black      string
	white      string
	inProgress string
	won        string
	undone     string
	redone     string
	turn       string
}

var catalog = map[Locale]messages{
	LocaleZH: {
		black:      "黑棋",
		white:      "白棋",
		inProgress: "正在进行中",
		won:        "%s 获胜！",
		undone:     "已悔棋",
		redone:     "已重做",
		turn:       "当前：%s",
	},
	LocaleEN: {
		black:      "Black",
		white:      "White",
		inProgress: "In progress",
		won:        "%s wins!",
		undone:     "Move undone",
		redone:     "Move redone",
		turn:       "Turn: %s",
	},
}

// ParseLocale maps a config value to a known locale, falling back to Chinese.
func ParseLocale(value string) Locale {
	if _, ok := catalog[Locale(value)]; ok {
		return Locale(value)
	}
	return LocaleZH
}

func (that Locale) messages() messages {
	if m, ok := catalog[that]; ok {
		return m
	}
	return catalog[LocaleZH]
}

func PlayerLabel(locale Locale, player entity.Player) string {
	m := locale.messages()

	switch player {
	case entity.PlayerBlack:
		return m.black
	case entity.PlayerWhite:
		return m.white
	default:
		return ""
	}
}

// TurnLabel names the player to show in the turn indicator: the winner once
// the game is won, otherwise the player to move.
func TurnLabel(locale Locale, game *entity.Game) string {
	player := game.CurrentPlayer
	if game.IsWon() {
		player = game.Winner
	}

	return fmt.Sprintf(locale.messages().turn, PlayerLabel(locale, player))
}

// StatusLine is the message for the status bar after lastAction produced game.
func StatusLine(locale Locale, game *entity.Game, lastAction entity.Action) string {
	m := locale.messages()

	if game.IsWon() {
		return fmt.Sprintf(m.won, PlayerLabel(locale, game.Winner))
	}

	switch lastAction {
	case entity.ActionUndo:
		return m.undone
	case entity.ActionRedo:
		return m.redone
	default:
		return m.inProgress
	}
}
