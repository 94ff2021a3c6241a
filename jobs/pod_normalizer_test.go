package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingNormalizer struct {
	calls       atomic.Int32
	err         error
	hadDeadline atomic.Bool
}

func (c *countingNormalizer) NormalizePODs(ctx context.Context) (int, error) {
	c.calls.Add(1)
	_, ok := ctx.Deadline()
	c.hadDeadline.Store(ok)
	return 1, c.err
}

func TestRunOnceAppliesTimeout(t *testing.T) {
	n := &countingNormalizer{}
	NewPODNormalizer(n, time.Minute).RunOnce()
	assert.Equal(t, int32(1), n.calls.Load())
	assert.True(t, n.hadDeadline.Load())

	NewPODNormalizer(n, 0).RunOnce()
	assert.False(t, n.hadDeadline.Load())
}

func TestRunOnceSurvivesErrors(t *testing.T) {
	n := &countingNormalizer{err: errors.New("db down")}
	assert.NotPanics(t, NewPODNormalizer(n, time.Second).RunOnce)
	assert.Equal(t, int32(1), n.calls.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	p := NewPODNormalizer(&countingNormalizer{}, time.Second)
	assert.Error(t, p.Start("every now and then"))
}

func TestStartRunsOnSchedule(t *testing.T) {
	n := &countingNormalizer{}
	p := NewPODNormalizer(n, time.Second)
	require.NoError(t, p.Start("@every 1s"))
	defer p.Stop()

	assert.Eventually(t, func() bool { return n.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
