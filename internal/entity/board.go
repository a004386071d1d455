package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
)

// BoardSize is the number of rows and columns of the board.
const BoardSize = 3

var ErrInvalidMark = errors.New("invalid mark")

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	PlayerX
	PlayerO
)

func (m Mark) String() string {
	switch m {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	if m > PlayerO {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMark, m)
	}
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*m = Empty
	case "X":
		*m = PlayerX
	case "O":
		*m = PlayerO
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, text)
	}

	return nil
}

// Line is a triple of cell indexes.
type Line [3]int

// WinLines are checked in this order; the first complete one wins.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Contains reports whether cell is part of the line.
func (that Line) Contains(cell int) bool {
	return that[0] == cell || that[1] == cell || that[2] == cell
}

// WinResult is the winning player together with the line that won.
type WinResult struct {
	Player Mark `json:"player"`
	Line   Line `json:"line"`
}

// Board holds the cells in row-major order: index = row*3 + col.
type Board [BoardSize * BoardSize]Mark

// Winner returns the first completed line, if any.
func (that Board) Winner() (WinResult, bool) {
	for _, line := range WinLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != Empty && a == b && b == c {
			return WinResult{Player: a, Line: line}, true
		}
	}

	return WinResult{}, false
}

// IsFull reports whether no empty cell is left.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// IsDraw reports a full board without a winner.
func (that Board) IsDraw() bool {
	if _, ok := that.Winner(); ok {
		return false
	}
	return that.IsFull()
}

// Place returns a copy of the board with mark written into cell.
// The receiver is never modified.
func (that Board) Place(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= len(that) {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if _, ok := that.Winner(); ok {
		return that, apperror.ErrGameFinished
	}

	if that[cell] != Empty {
		return that, apperror.ErrCellOccupied
	}

	next := that
	next[cell] = mark

	return next, nil
}

// diff returns the indexes of cells that differ between two boards.
func (that Board) diff(other Board) []int {
	var cells []int
	for i := range that {
		if that[i] != other[i] {
			cells = append(cells, i)
		}
	}
	return cells
}
