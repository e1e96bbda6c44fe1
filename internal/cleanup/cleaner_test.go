package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls   atomic.Int32
	removed int
}

func (s *countingSweeper) SweepExpired() int {
	s.calls.Add(1)
	return s.removed
}

func TestCleaner_ReportsRemoved(t *testing.T) {
	s := &countingSweeper{removed: 3}
	var reported int
	c := NewCleaner(s, time.Minute, func(n int) { reported += n })

	assert.Equal(t, 3, c.cleanup())
	assert.Equal(t, 3, reported)

	s.removed = 0
	assert.Equal(t, 0, c.cleanup())
	assert.Equal(t, 3, reported)
}

func TestCleaner_RunsUntilCancelled(t *testing.T) {
	s := &countingSweeper{}
	c := NewCleaner(s, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	assert.Eventually(t, func() bool { return s.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestNewCleaner_DefaultInterval(t *testing.T) {
	c := NewCleaner(&countingSweeper{}, 0, nil)
	assert.Equal(t, 5*time.Minute, c.interval)
}
