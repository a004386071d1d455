package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// sessionLock serializes the actions of one session. refs counts the
// callers holding or waiting for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// GameManager applies player actions to the game of a session. Load, change
// and save of one session never interleave; different sessions run in parallel.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu    sync.Mutex
	locks map[string]*sessionLock
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		locks:    make(map[string]*sessionLock),
	}
}

// lock takes the lock of sessionID and returns its release func.
func (that *GameManager) lock(sessionID string) func() {
	that.mu.Lock()
	l, ok := that.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		that.locks[sessionID] = l
	}
	l.refs++
	that.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		that.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, sessionID)
		}
		that.mu.Unlock()
	}
}

// GetOrCreateGame returns the session's game, starting a new one on first use.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	defer that.lock(sessionID)()

	return that.getOrCreateGame(ctx, sessionID)
}

// MakeTurn plays cell for whoever is to move. A rejected move returns the
// unchanged game with an apperror sentinel.
func (that *GameManager) MakeTurn(ctx context.Context, sessionID string, cell int) (*entity.Game, error) {
	return that.update(ctx, sessionID, "MakeTurn", func(game *entity.Game) error {
		return game.Play(cell)
	})
}

// JumpTo moves the session's game to an earlier or later position in history.
func (that *GameManager) JumpTo(ctx context.Context, sessionID string, move int) (*entity.Game, error) {
	return that.update(ctx, sessionID, "JumpTo", func(game *entity.Game) error {
		return game.JumpTo(move)
	})
}

func (that *GameManager) ToggleSort(ctx context.Context, sessionID string) (*entity.Game, error) {
	return that.update(ctx, sessionID, "ToggleSort", func(game *entity.Game) error {
		game.ToggleSort()
		return nil
	})
}

// Restart drops the session's game and starts an empty one.
func (that *GameManager) Restart(ctx context.Context, sessionID string) (*entity.Game, error) {
	defer that.lock(sessionID)()

	err := that.gameRepo.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to delete game: %w", err)
	}

	game := entity.NewGame(sessionID)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game restarted", "sessionID", sessionID)

	return game, nil
}

func (that *GameManager) update(ctx context.Context, sessionID, method string, apply func(game *entity.Game) error) (*entity.Game, error) {
	log := that.logger.With("method", method, "sessionID", sessionID)

	defer that.lock(sessionID)()

	game, err := that.getOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err = apply(game); err != nil {
		if apperror.IsRejected(err) {
			log.Debug("action rejected", "reason", err)
			return game, err
		}

		return nil, fmt.Errorf("failed to apply %s: %w", method, err)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Debug("action applied", "currentMove", game.CurrentMove, "status", game.Status())

	return game, nil
}

func (that *GameManager) getOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game = entity.NewGame(sessionID)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "sessionID", sessionID)

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
