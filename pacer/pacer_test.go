package pacer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockZeroIsNoOp(t *testing.T) {
	var c Clock
	start := time.Now()
	c.Pace(1000000, 0)
	assert.Less(t, time.Since(start), 5*time.Millisecond)
}

func TestClockPacesUpToBudget(t *testing.T) {
	c := NewClock(1) // 1 MHz -> 1 cycle == 1us
	start := time.Now()
	c.Pace(2000, 0) // budget 2ms
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 1500*time.Microsecond)
}

func TestClockSkipsWaitWhenElapsedExceedsBudget(t *testing.T) {
	c := NewClock(1)
	start := time.Now()
	c.Pace(1, 10*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Millisecond)
}
