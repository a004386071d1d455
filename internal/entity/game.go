package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
)

var ErrCorruptedGame = errors.New("corrupted game state")

// Game owns the move history of one session. Turn and winner are never
// stored; they are derived from CurrentMove and the displayed board.
type Game struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	CurrentMove int     `json:"current_move"`
	Ascending   bool    `json:"ascending"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		History:     []Board{{}},
		CurrentMove: 0,
		Ascending:   true,
	}
}

// CurrentBoard is the board displayed at CurrentMove.
func (that *Game) CurrentBoard() Board {
	return that.History[that.CurrentMove]
}

// NextPlayer is X on even moves and O on odd ones.
func (that *Game) NextPlayer() Mark {
	if that.CurrentMove%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

func (that *Game) Winner() (WinResult, bool) {
	return that.CurrentBoard().Winner()
}

func (that *Game) IsDraw() bool {
	return that.CurrentBoard().IsDraw()
}

// Status is the line shown above the board.
func (that *Game) Status() string {
	if winner, ok := that.Winner(); ok {
		return "Winner: " + winner.Player.String()
	}

	if that.IsDraw() {
		return "Draw"
	}

	return "Next player: " + that.NextPlayer().String()
}

// Play puts the next player's mark into cell. Any future beyond the current
// move is discarded first. On error the game is left unchanged.
func (that *Game) Play(cell int) error {
	next, err := that.CurrentBoard().Place(cell, that.NextPlayer())
	if err != nil {
		return err
	}

	history := make([]Board, that.CurrentMove+1, that.CurrentMove+2)
	copy(history, that.History[:that.CurrentMove+1])

	that.History = append(history, next)
	that.CurrentMove = len(that.History) - 1

	return nil
}

// JumpTo moves the pointer without touching the history.
func (that *Game) JumpTo(move int) error {
	if move < 0 || move >= len(that.History) {
		return fmt.Errorf("%w: move %d of %d", apperror.ErrInvalidMove, move, len(that.History))
	}

	that.CurrentMove = move

	return nil
}

func (that *Game) ToggleSort() {
	that.Ascending = !that.Ascending
}

// Validate checks the history invariants of a game decoded from storage.
func (that *Game) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", ErrCorruptedGame)
	}

	if that.History[0] != (Board{}) {
		return fmt.Errorf("%w: history does not start with an empty board", ErrCorruptedGame)
	}

	if that.CurrentMove < 0 || that.CurrentMove >= len(that.History) {
		return fmt.Errorf("%w: current move %d out of range", ErrCorruptedGame, that.CurrentMove)
	}

	for i := 1; i < len(that.History); i++ {
		prev, cur := that.History[i-1], that.History[i]

		if _, ok := prev.Winner(); ok {
			return fmt.Errorf("%w: move %d played after the game was won", ErrCorruptedGame, i)
		}

		cells := prev.diff(cur)
		if len(cells) != 1 || prev[cells[0]] != Empty {
			return fmt.Errorf("%w: move %d is not a single placement", ErrCorruptedGame, i)
		}

		// move i is played by X when i-1 is even
		expected := PlayerX
		if (i-1)%2 == 1 {
			expected = PlayerO
		}

		if cur[cells[0]] != expected {
			return fmt.Errorf("%w: move %d played out of turn", ErrCorruptedGame, i)
		}
	}

	return nil
}
