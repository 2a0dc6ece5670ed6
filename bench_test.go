package streamguard

import (
	"context"
	"io"
	"testing"
)

// BenchmarkBareStream measures the unwrapped pull loop as a baseline.
func BenchmarkBareStream(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		s := counterStream(100)
		for {
			if _, err := s.Next(ctx); err == io.EOF {
				break
			}
		}
	}
}

// BenchmarkGuardedStream measures the same loop through a guard, to
// keep the forwarding overhead honest.
func BenchmarkGuardedStream(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		g := New(counterStream(100), func(s *Stream[int]) error { return nil })
		for {
			if _, err := g.Next(ctx); err == io.EOF {
				break
			}
		}
		_ = g.Close()
	}
}

func BenchmarkGuardAll(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		g := New(counterStream(100), func(s *Stream[int]) error { return nil })
		for range g.All(ctx) {
		}
	}
}

func counterStream(n int) *Stream[int] {
	var i int
	return NewStream(func(ctx context.Context) (int, error) {
		if i >= n {
			return 0, io.EOF
		}
		i++
		return i, nil
	})
}
