package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/pkg/adapters/memory"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LocksAreCollected(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 1000; i++ {
		sid := fmt.Sprintf("session-%d", i)
		require.NoError(t, mgr.Create(ctx, domain.NewSession(sid, 1, now)))
		_, _ = mgr.Load(ctx, sid)
		require.NoError(t, mgr.Delete(ctx, sid))
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks, "lock entries must not outlive their users")
}

func TestManager_LocksCollectedUnderContention(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, mgr.Create(ctx, domain.NewSession("shared", 1, time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mgr.Update(ctx, "shared", func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
				return s, nil
			})
		}()
	}
	wg.Wait()

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks)
}
