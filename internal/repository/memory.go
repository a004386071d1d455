package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

type memoryEntry struct {
	gameJSON  []byte
	expiresAt time.Time
}

func (that memoryEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}

// memoryGame keeps encoded games in a map, so callers never share a game
// value with the store. Entries expire like Redis keys: expired games are
// never returned and are swept out on write, at most once per ttl.
type memoryGame struct {
	mu        sync.RWMutex
	games     map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time

	now func() time.Time
}

// NewMemoryGameRepository - a zero ttl keeps games until they are deleted.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games:     make(map[string]memoryEntry),
		ttl:       ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()

	entry := memoryEntry{gameJSON: gameJSON}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}

	that.games[game.ID] = entry
	that.sweep(now)

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	entry, ok := that.games[id]
	now := that.now()
	that.mu.RUnlock()

	if !ok || entry.expired(now) {
		return nil, ErrGameNotFound
	}

	return decodeGame(entry.gameJSON)
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.games[id]
	if !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	if entry.expired(that.now()) {
		return ErrGameNotFound
	}

	return nil
}

// sweep drops expired entries. Callers hold the write lock.
func (that *memoryGame) sweep(now time.Time) {
	if that.ttl <= 0 || now.Sub(that.lastSweep) < that.ttl {
		return
	}

	for id, entry := range that.games {
		if entry.expired(now) {
			delete(that.games, id)
		}
	}

	that.lastSweep = now
}
