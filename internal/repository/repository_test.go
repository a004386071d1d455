package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoFactory builds an empty repository whose games live for ttl.
type repoFactory func(t *testing.T, ttl time.Duration) (context.Context, GameRepository)

// runGameRepositoryTests checks the contract every GameRepository must follow.
func runGameRepositoryTests(t *testing.T, newRepo repoFactory) {
	t.Run("CreateOrUpdate_and_GetByID", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		// Given: a game with two moves and a jump back
		game := entity.NewGame("123")
		require.NoError(t, game.Play(4))
		require.NoError(t, game.Play(0))
		require.NoError(t, game.JumpTo(1))
		game.ToggleSort()

		// When: it is saved and read back
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game matches the saved one
		require.NoError(t, err)
		assert.Equal(t, game, retrievedGame)
	})

	t.Run("CreateOrUpdate_Overwrites", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the game changes and is saved again
		require.NoError(t, game.Play(8))
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// Then: the latest state is returned
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, retrievedGame.CurrentMove)
		assert.Len(t, retrievedGame.History, 2)
	})

	t.Run("GetByID_ReturnsCopy", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: a retrieved game is modified without saving
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		require.NoError(t, retrievedGame.Play(0))

		// Then: the stored game is unchanged
		again, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Len(t, again.History, 1)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})

	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, game.ID)

		// Then: the game is gone
		require.NoError(t, err)
		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		err := gameRepo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("GetByID_Expired", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, 200*time.Millisecond)

		// Given: a game saved with a short ttl
		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the ttl passes
		// Then: the game is gone
		assert.Eventually(t, func() bool {
			_, err := gameRepo.GetByID(ctx, game.ID)
			return errors.Is(err, ErrGameNotFound)
		}, 5*time.Second, 50*time.Millisecond)

		err := gameRepo.DeleteByID(ctx, game.ID)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("CreateOrUpdate_RefreshesTTL", func(t *testing.T) {
		ctx, gameRepo := newRepo(t, time.Hour)

		game := entity.NewGame("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
		require.NoError(t, game.Play(4))
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game, retrievedGame)
	})
}
