// Package streamguard wraps a pull-based stream so that a user-supplied
// close action runs exactly once when consumption ends, no matter how it
// ends: the stream drained to completion, abandoned after a few items,
// or cancelled while blocked waiting for the next one.
//
// # Streams
//
// [Stream] is the pull protocol: [Stream.Next] yields the next value,
// blocks until one is available, or returns [io.EOF] at the end of the
// sequence. A cancelled context surfaces as ctx.Err(). Create streams
// with [NewStream], [FromSlice], [FromChan], [FromFunc], or [FromSeq];
// consume them with Next, [Stream.ToSlice], or [Stream.ForEach].
// Non-EOF errors are also recorded in the [Stream.Err] side channel.
// Streams are single-consumer.
//
// # Guards
//
// [New] pairs a stream with a [CloseFunc] and returns a [Guard]. The
// guard forwards Next to the wrapped stream unchanged — same items,
// same order, same blocking — so it can be used anywhere the plain
// stream could. Its one added effect is teardown: the first
// [Guard.Close] call hands the stream to the close action, exactly
// once. Later Close calls return the recorded outcome without
// re-invoking anything, so defensive re-closing is safe.
//
// Go has no destructors, so closing is an explicit operation rather
// than an implicit one, and the package leans on two guaranteed-release
// forms instead of finalizers:
//
//   - [With] runs a function against the guard and closes it in a
//     defer, so the action fires on return, error, and panic.
//   - [Guard.All] adapts the guard to a range loop; the action fires
//     when the loop exits, including via break or early return.
//
//	release := func(s *streamguard.Stream[int]) error {
//	    return conn.Close()
//	}
//	for v := range streamguard.New(rows, release).All(ctx) {
//	    fmt.Println(v)
//	}
//
// # Close errors
//
// A close action may fail; the error is returned by [Guard.Close] (and
// joined into [With]'s result), kept readable via [Guard.Err], and
// reported through the logger set with [WithLogger]. A panic inside the
// action is recovered and wrapped in [*PanicError] — teardown never
// aborts the unwind of an unrelated failure. The items already yielded
// are unaffected by a close failure.
//
// The package provides no retry and no stream combinators; it is a
// one-shot ownership guarantee, not a resilience or pipeline layer.
package streamguard
