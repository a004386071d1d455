package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = PlayerX
	o = PlayerO
	e = Empty
)

func TestBoard_Winner(t *testing.T) {
	t.Run("Returns no winner for boards without three in a row", func(t *testing.T) {
		boards := []Board{
			{},
			{x, o, e, e, x, e, e, e, o},
			{x, o, x, x, o, o, o, x, x},
			{o, x, o, o, x, x, x, o, x},
		}

		for _, board := range boards {
			// When: determining the winner
			_, ok := board.Winner()

			// Then: there is none
			assert.False(t, ok, "%v", board)
		}
	})

	t.Run("Returns the line and mark for every winning line", func(t *testing.T) {
		// full boards where exactly one line is complete for X
		boards := map[Line]Board{
			{0, 1, 2}: {x, x, x, o, o, x, x, o, o},
			{3, 4, 5}: {o, x, o, x, x, x, x, o, o},
			{6, 7, 8}: {x, o, o, o, o, x, x, x, x},
			{0, 3, 6}: {x, o, x, x, o, o, x, x, o},
			{1, 4, 7}: {o, x, o, o, x, x, x, x, o},
			{2, 5, 8}: {o, o, x, x, o, x, o, x, x},
			{0, 4, 8}: {x, o, o, o, x, x, x, o, x},
			{2, 4, 6}: {o, o, x, x, x, o, x, o, o},
		}
		require.Len(t, boards, len(WinLines))

		for line, board := range boards {
			for _, mark := range []Mark{PlayerX, PlayerO} {
				// Given: the board with marks swapped when checking O
				if mark == PlayerO {
					board = swapMarks(board)
				}

				// When: determining the winner
				result, ok := board.Winner()

				// Then: the line and the mark are reported
				require.True(t, ok, "line %v", line)
				assert.Equal(t, mark, result.Player)
				assert.Equal(t, line, result.Line)
			}
		}
	})

	t.Run("First matching line in enumeration order wins", func(t *testing.T) {
		// Given: a board where row 0 and column 0 are both X
		board := Board{x, x, x, x, o, o, x, o, o}

		// When: determining the winner
		result, ok := board.Winner()

		// Then: row 0 is reported because it is checked first
		require.True(t, ok)
		assert.Equal(t, Line{0, 1, 2}, result.Line)
	})
}

func swapMarks(board Board) Board {
	for i := range board {
		board[i] = board[i].Opponent()
	}
	return board
}

func TestBoard_IsDraw(t *testing.T) {
	t.Run("Full board without a winner is a draw", func(t *testing.T) {
		board := Board{o, x, o, o, x, x, x, o, x}

		assert.True(t, board.IsFull())
		assert.True(t, board.IsDraw())
	})

	t.Run("Full board with a winner is not a draw", func(t *testing.T) {
		board := Board{x, x, x, o, o, x, x, o, o}

		assert.True(t, board.IsFull())
		assert.False(t, board.IsDraw())
	})

	t.Run("Board with an empty cell is not a draw", func(t *testing.T) {
		board := Board{x, o, x, e, o, e, x, e, e}

		assert.False(t, board.IsDraw())
	})
}

func TestBoard_Place(t *testing.T) {
	t.Run("Returns a copy with the mark placed", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: placing X into the center
		next, err := board.Place(4, PlayerX)

		// Then: the copy has the mark and the original is untouched
		require.NoError(t, err)
		assert.Equal(t, PlayerX, next[4])
		assert.Equal(t, Board{}, board)
	})

	t.Run("Error on occupied cell", func(t *testing.T) {
		board := Board{x}

		_, err := board.Place(0, PlayerO)

		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		board := Board{x, x, x, o, o}

		_, err := board.Place(8, PlayerO)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Error on invalid cell index", func(t *testing.T) {
		var board Board

		_, err := board.Place(9, PlayerX)
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = board.Place(-1, PlayerX)
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}

func TestMark_Text(t *testing.T) {
	t.Run("Board encodes marks as strings", func(t *testing.T) {
		board := Board{x, o}

		data, err := json.Marshal(board)

		require.NoError(t, err)
		assert.JSONEq(t, `["X","O","","","","","","",""]`, string(data))
	})

	t.Run("Unknown mark is rejected", func(t *testing.T) {
		var board Board

		err := json.Unmarshal([]byte(`["Z","","","","","","","",""]`), &board)

		assert.ErrorIs(t, err, ErrInvalidMark)
	})
}
