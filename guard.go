package streamguard

import (
	"context"
	"errors"
	"iter"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by [Guard.Next] after [Guard.Close] has run.
var ErrClosed = errors.New("streamguard: next on closed guard")

// CloseFunc is the cleanup action attached to a [Guard]. It receives
// sole ownership of the wrapped stream at teardown and may do with it
// whatever the underlying resource requires (drain, flush, notify).
//
// The action runs synchronously inside [Guard.Close] and may be called
// during the unwind of an unrelated failure, so it must not block
// indefinitely.
type CloseFunc[T any] func(s *Stream[T]) error

// Guard wraps a [Stream] and guarantees that its close action runs
// exactly once, no matter how consumption of the stream ends.
//
// A guard forwards [Guard.Next] to the wrapped stream unchanged: same
// items, same order, same blocking, no buffering. Its one added effect
// is the close action, fired by the first [Guard.Close] call.
//
// Guards follow the same single-consumer rule as [Stream]: one
// goroutine drives Next, and that goroutine (or its deferred calls) is
// the one that closes.
type Guard[T any] struct {
	inner  *Stream[T]
	action CloseFunc[T]
	cfg    config

	once     sync.Once
	closeErr error
}

// New wraps a stream with a close action.
//
// The guard takes exclusive ownership of inner: no other component may
// pull from it while the guard is live. Panics if inner or action is
// nil.
//
// Callers using New directly are responsible for arranging the Close
// call, typically:
//
//	g := streamguard.New(s, release)
//	defer g.Close()
//
// [With] and [Guard.All] bundle that arrangement.
func New[T any](inner *Stream[T], action CloseFunc[T], opts ...Option) *Guard[T] {
	if inner == nil {
		panic("streamguard: New requires a non-nil stream")
	}
	if action == nil {
		panic("streamguard: New requires a non-nil close action")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Guard[T]{
		inner:  inner,
		action: action,
		cfg:    cfg,
	}
}

// Next returns the next item from the wrapped stream. It forwards
// directly to the stream's Next: end of sequence is io.EOF, and a
// cancelled context surfaces as ctx.Err(), exactly as it would without
// the guard. After Close, Next returns [ErrClosed].
func (g *Guard[T]) Next(ctx context.Context) (T, error) {
	if g.inner == nil {
		var zero T
		return zero, ErrClosed
	}
	return g.inner.Next(ctx)
}

// Close runs the close action, handing it the wrapped stream. Only the
// first call invokes the action; the guard's action slot is emptied in
// the same step, so a second invocation has nothing left to run.
// Later calls return the recorded outcome without further effect.
//
// A panic inside the action is recovered and wrapped in a [*PanicError]
// returned as the close error. Close itself never panics: it may run in
// a defer during the unwind of another failure, and must not abort it.
func (g *Guard[T]) Close() error {
	g.once.Do(func() {
		inner, action := g.inner, g.action
		g.inner, g.action = nil, nil

		g.closeErr = runAction(action, inner)
		if g.closeErr != nil {
			g.cfg.logger.Error("stream guard close action failed",
				zap.String("guard", g.cfg.name),
				zap.Error(g.closeErr),
			)
		}
		if g.cfg.onClose != nil {
			g.cfg.onClose(g.closeErr)
		}
	})
	return g.closeErr
}

// runAction invokes the close action with panic recovery.
func runAction[T any](action CloseFunc[T], inner *Stream[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return action(inner)
}

// Err returns the outcome recorded by Close: nil before Close has run
// and after a successful close, otherwise the close action's error.
func (g *Guard[T]) Err() error {
	return g.closeErr
}

// All returns an iterator over the remaining items, for use with a
// range loop. The guard is closed when the loop exits, whether by
// reaching the end of the stream, a break, an early return, a panic in
// the loop body, or context cancellation:
//
//	for v := range g.All(ctx) {
//	    if v > limit {
//	        break // close action still runs
//	    }
//	}
//
// A non-EOF stream error ends the loop; inspect it via the stream's
// Err method. Do not call Next on the guard after ranging over All.
func (g *Guard[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer g.Close()
		for {
			v, err := g.Next(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// With runs fn with a guard over inner, closing the guard when fn
// returns. This is the guaranteed-release form of [New]: the close
// action fires on normal return, error return, and panic (the panic is
// re-raised after the action has run).
//
// The error returned by fn and the close error are combined with
// [errors.Join]; either may be retrieved with [errors.Is] or
// [errors.As].
func With[T any](
	ctx context.Context,
	inner *Stream[T],
	action CloseFunc[T],
	fn func(ctx context.Context, g *Guard[T]) error,
	opts ...Option,
) (err error) {
	g := New(inner, action, opts...)

	defer func() {
		// Capture any panic from fn before teardown, so the close
		// action runs even on an unwinding stack.
		p := recover()

		closeErr := g.Close()

		if p != nil {
			panic(p)
		}
		err = errors.Join(err, closeErr)
	}()

	return fn(ctx, g)
}
