package benchmarks

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/typedevent/pkg/typedevent"
	"github.com/randalmurphal/typedevent/pkg/typedevent/observability"
)

// Payload is the argument type of benchmark channels.
type Payload struct {
	N int
}

func noop(_ context.Context, _ *typedevent.Instance[Payload, int]) error {
	return nil
}

func increment(_ context.Context, e *typedevent.Instance[Payload, int]) error {
	e.SetResult(e.ResultOr(0) + e.Args().N)
	return nil
}

// buildChannel returns a channel with n incrementing handlers.
func buildChannel(n int, opts ...typedevent.Option) *typedevent.Channel[Payload, int] {
	ch := typedevent.New[Payload, int](opts...)
	for range n {
		ch.On(increment)
	}
	return ch
}

// BenchmarkEmit_NoHandlers measures the fixed cost of an emission.
func BenchmarkEmit_NoHandlers(b *testing.B) {
	ch := buildChannel(0)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_1 emits to a single handler.
func BenchmarkEmit_1(b *testing.B) {
	ch := buildChannel(1)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_10 emits to 10 handlers.
func BenchmarkEmit_10(b *testing.B) {
	ch := buildChannel(10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_100 emits to 100 handlers.
func BenchmarkEmit_100(b *testing.B) {
	ch := buildChannel(100)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_Recover emits with panic recovery enabled.
func BenchmarkEmit_Recover(b *testing.B) {
	ch := buildChannel(10, typedevent.WithRecover())
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_Instrumented emits with OTel metrics and spans on the global providers.
func BenchmarkEmit_Instrumented(b *testing.B) {
	ch := buildChannel(10,
		typedevent.WithMetrics(observability.NewMetricsRecorder()),
		typedevent.WithSpans(observability.NewSpanManager()),
	)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkEmit_Parallel emits from many goroutines at once.
func BenchmarkEmit_Parallel(b *testing.B) {
	ch := buildChannel(10)
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = ch.Emit(ctx, Payload{N: 1})
		}
	})
}

// BenchmarkEmit_ErrGroup emits in batches of 8 concurrent emissions.
func BenchmarkEmit_ErrGroup(b *testing.B) {
	ch := buildChannel(10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, gctx := errgroup.WithContext(ctx)
		for range 8 {
			g.Go(func() error {
				_, err := ch.Emit(gctx, Payload{N: 1})
				return err
			})
		}
		_ = g.Wait()
	}
}

// BenchmarkRegister_Unregister measures handler churn.
func BenchmarkRegister_Unregister(b *testing.B) {
	ch := buildChannel(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		off := ch.On(noop)
		off()
	}
}

// BenchmarkOnce_Emit measures a once registration that fires every iteration.
func BenchmarkOnce_Emit(b *testing.B) {
	ch := buildChannel(0)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch.Once(noop)
		_, _ = ch.Emit(ctx, Payload{N: 1})
	}
}

// BenchmarkExpect_Resolve measures an Expect resolved by the next emission.
func BenchmarkExpect_Resolve(b *testing.B) {
	ch := buildChannel(0)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f := ch.Expect(nil, typedevent.NoTimeout)
		_, _ = ch.Emit(ctx, Payload{N: i})
		_, _ = f.Wait(ctx)
	}
}
