// Package view turns a game snapshot into render models. Every function here
// is pure: the same game always yields the same models.
package view

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const (
	sortAscendingLabel  = "Sort by ▼"
	sortDescendingLabel = "Sort by ▲"
)

// Cell is one board position.
type Cell struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Winning bool   `json:"winning"`
}

// Class is the CSS class of the cell button.
func (that Cell) Class() string {
	if that.Winning {
		return "winning-square"
	}
	return "square"
}

type Board struct {
	Status string                                   `json:"status"`
	Rows   [entity.BoardSize][entity.BoardSize]Cell `json:"rows"`
}

// Move is one entry of the move list. The current move is plain text,
// every other entry is a control that jumps to Index.
type Move struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

type MoveList struct {
	Ascending bool   `json:"ascending"`
	SortLabel string `json:"sort_label"`
	Moves     []Move `json:"moves"`
}

type Game struct {
	ID       string   `json:"id"`
	Board    Board    `json:"board"`
	MoveList MoveList `json:"move_list"`
}

func NewCell(board entity.Board, index int, winner *entity.WinResult) Cell {
	return Cell{
		Index:   index,
		Label:   board[index].String(),
		Winning: winner != nil && winner.Line.Contains(index),
	}
}

func NewBoard(game *entity.Game) Board {
	board := game.CurrentBoard()

	var winner *entity.WinResult
	if result, ok := board.Winner(); ok {
		winner = &result
	}

	view := Board{Status: game.Status()}
	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			view.Rows[row][col] = NewCell(board, row*entity.BoardSize+col, winner)
		}
	}

	return view
}

func NewMoveList(game *entity.Game) MoveList {
	moves := make([]Move, 0, len(game.History))
	for index := range game.History {
		moves = append(moves, newMove(index, index == game.CurrentMove))
	}

	// reversal is applied to the rendered copy only
	if !game.Ascending {
		slices.Reverse(moves)
	}

	label := sortAscendingLabel
	if !game.Ascending {
		label = sortDescendingLabel
	}

	return MoveList{
		Ascending: game.Ascending,
		SortLabel: label,
		Moves:     moves,
	}
}

func newMove(index int, current bool) Move {
	var description string
	switch {
	case current:
		description = fmt.Sprintf("You are at move #%d", index+1)
	case index > 0:
		description = fmt.Sprintf("Go to move #%d", index+1)
	default:
		description = "Go to game start"
	}

	return Move{
		Index:       index,
		Description: description,
		Current:     current,
	}
}

// NewGame renders the whole page model.
func NewGame(game *entity.Game) Game {
	return Game{
		ID:       game.ID,
		Board:    NewBoard(game),
		MoveList: NewMoveList(game),
	}
}
