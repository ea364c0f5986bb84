// Package framecheck is a frame-acquisition and verification harness for
// testing asynchronous rendering and sensor pipelines.
//
// # Overview
//
// A rendering host delivers frames through per-camera callbacks and
// exposes a pre-render tick where scene objects may be mutated. This
// package provides the consumer side of that protocol:
//
//   - Sink: a thread-safe destination buffer that receives frames and
//     counts deliveries (copy and increment under one lock, so counter
//     and buffer are always consistent).
//   - WaitForCount / Sink.WaitFor: bounded-time sleep-poll waits for a
//     target frame count. Timeouts are soft; the caller asserts on the
//     returned count.
//   - ScheduleShaderParam: one-shot mutation of a named visual's shader
//     parameter, dispatched into the host's pre-render tick and released
//     after its single invocation.
//   - SumChannels / RelativeDifference / CheckUniformColor: pure
//     reductions over frame buffers for brightness and flat-color
//     assertions.
//
// # Acquisition round
//
// The unit of work is one reset/wait/read cycle:
//
//	sink := framecheck.NewSink(320, 240, 3)
//	conn := cam.ConnectNewFrame(sink.Handler())
//	got := sink.WaitFor(ctx, 20, 5*time.Second)
//	conn.Close() // excludes in-flight deliveries; buffer now safe to read
//	sum := framecheck.SumChannels(sink.Bytes(), 320, 240)
//
// No frame is dropped or double-counted within a round, and a counter
// value of N always reflects the Nth buffer write.
//
// The host contracts consumed here (frame events, pre-render dispatch,
// scene lookup) live in the render package; a deterministic pure-Go host
// for tests lives in the sim package.
package framecheck
