// Package resource bounds the concurrency and I/O throughput of bulk
// persistence operations.
package resource

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentJobs is the maximum number of namespace save/load jobs
	// running at once. If 0, defaults to 1.
	MaxConcurrentJobs int64

	// IOLimitBytesPerSec is the maximum blob I/O throughput.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller enforces the configured limits. A nil *Controller is valid and
// enforces nothing.
type Controller struct {
	jobSem    *semaphore.Weighted
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 1
	}

	c := &Controller{
		jobSem: semaphore.NewWeighted(cfg.MaxConcurrentJobs),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireJob blocks until a job slot is available or ctx is canceled.
func (c *Controller) AcquireJob(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.jobSem.Acquire(ctx, 1)
}

// ReleaseJob returns a job slot.
func (c *Controller) ReleaseJob() {
	if c == nil {
		return
	}
	c.jobSem.Release(1)
}

// WaitIO blocks until the rate limiter admits n bytes of blob I/O.
// Requests larger than the limiter burst are split.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
