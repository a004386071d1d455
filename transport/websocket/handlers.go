package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

// payloadError is a client mistake in the message payload.
type payloadError struct {
	msg string
}

func (that *payloadError) Error() string {
	return that.msg
}

func (that *Server) handleConnect(ctx context.Context, sessionID string, _ *Message) (*entity.Game, error) {
	game, err := that.gameUseCase.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	that.logger.Info("player connected", "sessionID", sessionID)

	return game, nil
}

func (that *Server) handleNewGame(ctx context.Context, sessionID string, _ *Message) (*entity.Game, error) {
	return that.gameUseCase.Restart(ctx, sessionID)
}

func (that *Server) handleGameTurn(ctx context.Context, sessionID string, msg *Message) (*entity.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, &payloadError{msg: "cell is required"}
	}

	return that.gameUseCase.MakeTurn(ctx, sessionID, *payload.Cell)
}

func (that *Server) handleGameJump(ctx context.Context, sessionID string, msg *Message) (*entity.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Move == nil {
		return nil, &payloadError{msg: "move is required"}
	}

	return that.gameUseCase.JumpTo(ctx, sessionID, *payload.Move)
}

func (that *Server) handleGameSort(ctx context.Context, sessionID string, _ *Message) (*entity.Game, error) {
	return that.gameUseCase.ToggleSort(ctx, sessionID)
}

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payload RequestPayload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, &payloadError{msg: "failed to unmarshal payload"}
	}

	return &payload, nil
}
