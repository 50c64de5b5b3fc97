// Package realtime provides a tick-based delivery context for reactor
// subscriptions.
//
// A Loop differs from a serial executor in when work runs:
//   - Work is batched and run at fixed tick boundaries
//   - Submission order is preserved across ticks
//   - All work of a tick runs on one goroutine (frame affinity)
//   - Fixed time-step execution (e.g., 60 FPS)
//
// # Example Usage
//
//	loop := realtime.NewLoop(realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	loop.Start(ctx)
//	defer loop.Stop()
//	reactor.SubscribeState(core, view, reactor.DeliverOn(loop))
//
// Hosts that already own a frame loop skip Start and call Tick once per
// frame instead.
//
// # Trade-offs vs Serial Delivery
//
// Higher latency (up to one tick)
// Bounded work per frame (MaxPerTick)
// Deliveries for a frame are observed together
//
// # Use Cases
//
//   - UI render loops that must touch widgets from one goroutine
//   - Game loops (60 FPS presentation of game state)
//   - Testing/debugging (manual Tick for reproducible delivery)
package realtime
