package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/autoflow/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_Contention(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "flow", 0)
	require.NoError(t, err)

	t.Run("Second Lock Waits", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, err := locker.Lock(waitCtx, "flow", 0)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Other Keys Are Independent", func(t *testing.T) {
		other, err := locker.Lock(ctx, "other", 0)
		require.NoError(t, err)
		assert.NoError(t, other(ctx))
	})

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "unlock is idempotent")

	again, err := locker.Lock(ctx, "flow", 0)
	require.NoError(t, err)
	assert.NoError(t, again(ctx))
}

func TestLocker_TTL(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	_, err := locker.Lock(ctx, "flow", 20*time.Millisecond)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(waitCtx, "flow", 0)
	require.NoError(t, err, "expired lock can be taken again")
	assert.NoError(t, unlock(ctx))
}
