package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilController(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	require.NoError(t, c.AcquireJob(ctx))
	c.ReleaseJob()
	require.NoError(t, c.WaitIO(ctx, 1<<20))
}

func TestJobSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentJobs: 1})
	ctx := context.Background()

	require.NoError(t, c.AcquireJob(ctx))

	// Second acquire must respect cancellation while the slot is held.
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, c.AcquireJob(canceled))

	c.ReleaseJob()
	require.NoError(t, c.AcquireJob(ctx))
	c.ReleaseJob()
}

func TestWaitIOSplitsLargeRequests(t *testing.T) {
	c := NewController(Config{MaxConcurrentJobs: 1, IOLimitBytesPerSec: 1 << 30})

	// Larger than burst; must not error out.
	require.NoError(t, c.WaitIO(context.Background(), 3<<30))
}
