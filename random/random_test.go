package random

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntBetween(t *testing.T) {
	src := NewScripted([]int{0, 2, 5}, nil)
	assert.Equal(t, 1, IntBetween(src, 1, 3))
	assert.Equal(t, 3, IntBetween(src, 1, 3))
	// 5 % 3 == 2
	assert.Equal(t, 3, IntBetween(src, 1, 3))
	assert.Equal(t, 4, IntBetween(src, 4, 4))
}

func TestUniformAndBetween(t *testing.T) {
	src := NewScripted(nil, []float64{0, 0.5, 0.999})
	assert.Equal(t, 2.0, Uniform(src, 2, 4))
	assert.Equal(t, 3*time.Second, Between(src, 2*time.Second, 4*time.Second))
	d := Between(src, 3*time.Second, 7*time.Second)
	assert.GreaterOrEqual(t, d, 3*time.Second)
	assert.Less(t, d, 7*time.Second)
}

func TestSeededSourceStaysInRange(t *testing.T) {
	src := New(42)
	for i := 0; i < 1000; i++ {
		n := IntBetween(src, 1, 3)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 3)

		f := Uniform(src, 0.5, 1.5)
		require.GreaterOrEqual(t, f, 0.5)
		require.Less(t, f, 1.5)
	}
}

func TestChoice(t *testing.T) {
	src := NewScripted([]int{1}, nil)
	assert.Equal(t, "b", Choice(src, []string{"a", "b", "c"}))
}

func TestScriptedRepeatsLastValue(t *testing.T) {
	src := NewScripted([]int{1, 2}, []float64{0.25})
	assert.Equal(t, 1, src.Intn(10))
	assert.Equal(t, 2, src.Intn(10))
	assert.Equal(t, 2, src.Intn(10))
	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 0, NewScripted(nil, nil).Intn(5))
}

func TestRealSleeperHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RealSleeper.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRealSleeperSleeps(t *testing.T) {
	err := RealSleeper.Sleep(context.Background(), 5*time.Millisecond)
	assert.NoError(t, err)
}

func TestRecordingSleeper(t *testing.T) {
	var s RecordingSleeper
	require.NoError(t, s.Sleep(context.Background(), time.Second))
	require.NoError(t, s.Sleep(context.Background(), 2*time.Second))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, s.Durations)
	assert.Equal(t, 3*time.Second, s.Total())
}
