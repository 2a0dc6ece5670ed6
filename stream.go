package streamguard

import (
	"context"
	"io"
	"iter"
	"sync"
)

// Stream represents a pull-based sequence of values. Each call to
// [Stream.Next] produces the next value, blocks until one is available,
// or reports the end of the sequence with [io.EOF].
//
// Note: Streams are single-consumer. Next and the terminal methods must
// not be called concurrently.
type Stream[T any] struct {
	next func(ctx context.Context) (T, error)
	err  error
	mu   sync.Mutex
}

// Next returns the next item in the stream.
// Returns io.EOF when the stream is exhausted. Once a Next call has
// returned io.EOF, every later call returns io.EOF as well; the
// constructors in this package all preserve that property.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	val, err := s.next(ctx)
	if err != nil && err != io.EOF {
		s.setError(err)
	}
	return val, err
}

// Err returns the first non-EOF error the stream produced, if any.
func (s *Stream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream[T]) setError(err error) {
	if err == nil || err == io.EOF {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// NewStream creates a stream from an iterator function. The function is
// called once per [Stream.Next] and must return io.EOF at the end of the
// sequence, and keep returning io.EOF afterwards.
func NewStream[T any](next func(context.Context) (T, error)) *Stream[T] {
	if next == nil {
		panic("streamguard: NewStream requires a non-nil iterator function")
	}
	return &Stream[T]{next: next}
}

// FromSlice creates a stream that yields the items of a slice in order.
func FromSlice[T any](items []T) *Stream[T] {
	var idx int
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}
		if idx >= len(items) {
			var zero T
			return zero, io.EOF
		}
		val := items[idx]
		idx++
		return val, nil
	})
}

// FromChan creates a stream from a channel. The stream ends when the
// channel is closed. Next blocks while the channel is empty, unblocking
// early if the context is cancelled.
func FromChan[T any](ch <-chan T) *Stream[T] {
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				var zero T
				return zero, io.EOF
			}
			return v, nil
		}
	})
}

// FromFunc creates a stream from a function.
func FromFunc[T any](fn func(context.Context) (T, error)) *Stream[T] {
	return NewStream(fn)
}

// FromSeq creates a stream from an [iter.Seq]. The sequence is pulled
// lazily; if the context is cancelled before the sequence ends, the
// underlying iterator is stopped.
func FromSeq[T any](seq iter.Seq[T]) *Stream[T] {
	next, stop := iter.Pull(seq)
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case <-ctx.Done():
			stop()
			var zero T
			return zero, ctx.Err()
		default:
		}
		v, ok := next()
		if !ok {
			var zero T
			return zero, io.EOF
		}
		return v, nil
	})
}

// ToSlice collects all remaining items in the stream into a slice.
// On a non-EOF error it returns the items read so far alongside the
// error, following io.Reader conventions.
func (s *Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return items, s.Err()
		}
		if err != nil {
			return items, err
		}
		items = append(items, val)
	}
}

// ForEach applies fn to each remaining item in the stream, stopping at
// the first error from the stream or from fn.
func (s *Stream[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		val, err := s.Next(ctx)
		if err == io.EOF {
			return s.Err()
		}
		if err != nil {
			return err
		}
		if err := fn(val); err != nil {
			return err
		}
	}
}
