package entity

// Player is the owner of a stone. NoPlayer marks an empty cell.
type Player string

const (
	PlayerBlack Player = "black"
	PlayerWhite Player = "white"
	NoPlayer    Player = ""
)

// Opponent returns the player who moves after that one.
func (that Player) Opponent() Player {
	if that == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func (that Player) IsValid() bool {
	return that == PlayerBlack || that == PlayerWhite
}

func (that Player) String() string {
	if that == NoPlayer {
		return "empty"
	}
	return string(that)
}
