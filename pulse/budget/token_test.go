package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSteps(t *testing.T) {
	tok := Steps(3)
	assert.False(t, tok.Stop())
	assert.False(t, tok.Stop())
	assert.False(t, tok.Stop())
	assert.True(t, tok.Stop())
	assert.True(t, tok.Stop())

	unlimited := Steps(0)
	for i := 0; i < 100; i++ {
		assert.False(t, unlimited.Stop())
	}
}

func TestDeadline(t *testing.T) {
	clock := newMockClock(time.Now())
	tok := DeadlineWithClock(time.Second, clock.Now)

	assert.False(t, tok.Stop())
	clock.Advance(999 * time.Millisecond)
	assert.False(t, tok.Stop())
	clock.Advance(time.Millisecond)
	assert.True(t, tok.Stop())

	assert.False(t, Deadline(0).Stop())
}

func TestContextToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tok := Context(ctx)
	assert.False(t, tok.Stop())
	cancel()
	assert.True(t, tok.Stop())
}

func TestAny(t *testing.T) {
	steps := Steps(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tok := Any(steps, Context(ctx), nil)
	assert.False(t, tok.Stop())
	assert.False(t, tok.Stop())
	assert.True(t, tok.Stop())

	assert.False(t, Any().Stop())
	assert.False(t, Any(nil, Never()).Stop())
}
