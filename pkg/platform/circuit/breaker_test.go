package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := New("registry", WithFailureThreshold(2))

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")
}

func TestBreakerClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("registry", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	b.RecordFailure()
	usePrimary, _ = b.RecordSuccess()
	assert.False(t, usePrimary, "failure resets the success streak")

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestSuccessResetsFailureCountWhileClosed(t *testing.T) {
	b := New("registry", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	useFallback, _ := b.RecordFailure()
	assert.False(t, useFallback)
}

func TestOnStateChange(t *testing.T) {
	var seen []State
	b := New("registry",
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		OnStateChange(func(name string, to State) {
			assert.Equal(t, "registry", name)
			seen = append(seen, to)
		}),
	)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	assert.Equal(t, []State{StateOpen, StateClosed}, seen)
}

func TestReset(t *testing.T) {
	b := New("registry", WithFailureThreshold(1))
	b.RecordFailure()
	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, "closed", b.State().String())
}
