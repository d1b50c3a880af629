package service

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromXP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		xp       int64
		expected int
	}{
		{-50, 0},
		{0, 0},
		{99, 0},
		{100, 1},
		{399, 1},
		{400, 2},
		{2499, 4},
		{2500, 5},
		{9999, 9},
		{10000, 10},
		{1_000_000, 100},
		{10_000_000, 316},
		{XPForLevel(MaxLevel) - 1, MaxLevel - 1},
		{XPForLevel(MaxLevel), MaxLevel},
		{9_223_372_000_000_000_000, MaxLevel},
		{math.MaxInt64 - 1, MaxLevel},
		{math.MaxInt64, MaxLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LevelFromXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelFromXP_NonDecreasing(t *testing.T) {
	t.Parallel()

	prev := 0
	for xp := int64(0); xp <= 50_000; xp += 7 {
		level := LevelFromXP(xp)
		assert.GreaterOrEqual(t, level, 0)
		if level < prev {
			t.Fatalf("level decreased at xp=%d: %d < %d", xp, level, prev)
		}
		prev = level
	}
}

func TestXPForLevel_RoundTrip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), XPForLevel(0))
	assert.Equal(t, int64(2500), XPForLevel(5))
	assert.Equal(t, int64(10000), XPForLevel(10))

	for level := 0; level <= 1000; level++ {
		xp := XPForLevel(level)
		assert.Equal(t, level, LevelFromXP(xp), "level=%d", level)
		if level > 0 {
			assert.Equal(t, level-1, LevelFromXP(xp-1), "just below level=%d", level)
		}
	}
}

func TestCalculateProgress(t *testing.T) {
	t.Parallel()

	p := CalculateProgress(2750)
	assert.Equal(t, 5, p.Level)
	assert.Equal(t, int64(250), p.XPIntoLevel)
	assert.Equal(t, int64(1100), p.XPNeededForLevel)
	assert.InDelta(t, 22.727, p.PercentComplete, 0.001)

	zero := CalculateProgress(0)
	assert.Equal(t, 0, zero.Level)
	assert.Equal(t, int64(0), zero.XPIntoLevel)
	assert.Equal(t, int64(100), zero.XPNeededForLevel)
	assert.Equal(t, 0.0, zero.PercentComplete)
}

func TestLevelFromXP_LargeInputReturns(t *testing.T) {
	t.Parallel()

	done := make(chan int, 1)
	go func() { done <- LevelFromXP(math.MaxInt64) }()

	select {
	case level := <-done:
		assert.Equal(t, MaxLevel, level)
	case <-time.After(3 * time.Second):
		t.Fatal("LevelFromXP(math.MaxInt64) did not return")
	}
}

func TestXPForLevel_Saturates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(9_223_371_976_260_240_100), XPForLevel(MaxLevel))
	assert.Equal(t, int64(math.MaxInt64), XPForLevel(MaxLevel+1))
}

func TestCalculateProgress_MaxXP(t *testing.T) {
	t.Parallel()

	p := CalculateProgress(math.MaxInt64)
	assert.Equal(t, MaxLevel, p.Level)
	assert.Equal(t, int64(math.MaxInt64)-XPForLevel(MaxLevel), p.XPIntoLevel)
	assert.Equal(t, int64(0), p.XPNeededForLevel)
	assert.Equal(t, 100.0, p.PercentComplete)

	below := CalculateProgress(XPForLevel(MaxLevel) - 1)
	assert.Equal(t, MaxLevel-1, below.Level)
	assert.Equal(t, XPForLevel(MaxLevel)-XPForLevel(MaxLevel-1), below.XPNeededForLevel)
	assert.Less(t, below.XPIntoLevel, below.XPNeededForLevel)
}

func TestCalculateProgress_Bounds(t *testing.T) {
	t.Parallel()

	for xp := int64(0); xp <= 40_000; xp += 13 {
		p := CalculateProgress(xp)
		assert.GreaterOrEqual(t, p.XPIntoLevel, int64(0))
		assert.Less(t, p.XPIntoLevel, p.XPNeededForLevel)
		assert.GreaterOrEqual(t, p.PercentComplete, 0.0)
		assert.Less(t, p.PercentComplete, 100.0)
	}
}

func TestLengthBonus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		length   int
		expected int64
	}{
		{0, 0},
		{5, 0},
		{9, 0},
		{10, 1},
		{35, 3},
		{50, 5},
		{100, 5},
		{4000, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LengthBonus(tt.length), "length=%d", tt.length)
	}
}

func TestNextMilestone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, NextMilestone(0))
	assert.Equal(t, 10, NextMilestone(5))
	assert.Equal(t, 25, NextMilestone(12))
	assert.Equal(t, 1000, NextMilestone(999))
	assert.Equal(t, 1100, NextMilestone(1000))
	assert.Equal(t, 1300, NextMilestone(1250))
}
