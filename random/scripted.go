package random

import (
	"context"
	"time"
)

// Scripted is a deterministic Source replaying fixed sequences. Once a
// sequence is exhausted it keeps returning its last value (or 0 when empty).
type Scripted struct {
	Ints   []int
	Floats []float64

	ni, nf int
}

// NewScripted returns a Scripted source.
func NewScripted(ints []int, floats []float64) *Scripted {
	return &Scripted{Ints: ints, Floats: floats}
}

func (s *Scripted) Intn(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	i := s.ni
	if i >= len(s.Ints) {
		i = len(s.Ints) - 1
	} else {
		s.ni++
	}
	v := s.Ints[i] % n
	if v < 0 {
		v += n
	}
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	i := s.nf
	if i >= len(s.Floats) {
		i = len(s.Floats) - 1
	} else {
		s.nf++
	}
	return s.Floats[i]
}

// RecordingSleeper records requested pauses and returns immediately.
type RecordingSleeper struct {
	Durations []time.Duration
}

func (r *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.Durations = append(r.Durations, d)
	return ctx.Err()
}

// Total returns the sum of all recorded pauses.
func (r *RecordingSleeper) Total() time.Duration {
	var sum time.Duration
	for _, d := range r.Durations {
		sum += d
	}
	return sum
}
