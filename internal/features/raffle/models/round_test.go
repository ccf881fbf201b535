package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func openRound(startedAt time.Time) *Round {
	return &Round{
		ID:           "round-1",
		Status:       RoundStatusOpen,
		Participants: []string{"alice", "bob"},
		Pot:          20,
		StartedAt:    startedAt,
	}
}

func TestRoundElapsed(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := openRound(start)

	assert.Equal(t, 90*time.Second, r.Elapsed(start.Add(90*time.Second)))
	assert.Equal(t, time.Duration(0), r.Elapsed(start))
}

func TestRoundCanAdmit(t *testing.T) {
	r := openRound(time.Now())
	assert.True(t, r.CanAdmit())

	r.Status = RoundStatusSettling
	assert.False(t, r.CanAdmit())
}

func TestNeedsUpkeep(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 10 * time.Minute
	after := start.Add(interval + time.Second)

	t.Run("all predicates hold", func(t *testing.T) {
		r := openRound(start)
		assert.True(t, r.NeedsUpkeep(after, interval))
	})

	t.Run("interval not elapsed", func(t *testing.T) {
		r := openRound(start)
		assert.False(t, r.NeedsUpkeep(start.Add(interval), interval))
	})

	t.Run("empty pot", func(t *testing.T) {
		r := openRound(start)
		r.Pot = 0
		assert.False(t, r.NeedsUpkeep(after, interval))
	})

	t.Run("no participants", func(t *testing.T) {
		r := openRound(start)
		r.Participants = nil
		assert.False(t, r.NeedsUpkeep(after, interval))
	})

	t.Run("already settling", func(t *testing.T) {
		r := openRound(start)
		r.Status = RoundStatusSettling
		assert.False(t, r.NeedsUpkeep(after, interval))
	})
}

// The evaluator is pure: repeated calls with unchanged inputs agree.
func TestNeedsUpkeepIdempotent(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 10 * time.Minute
	now := start.Add(11 * time.Minute)
	r := openRound(start)

	first := r.NeedsUpkeep(now, interval)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.NeedsUpkeep(now, interval))
	}
	assert.Equal(t, RoundStatusOpen, r.Status)
	assert.Len(t, r.Participants, 2)
	assert.Equal(t, int64(20), r.Pot)
}
