package realtime

// Work is a queued item with its submission sequence number.
type Work struct {
	Run         func()
	SequenceNum uint64
}

// Ordering guarantees:
// 1. Work runs in submission order (sequence number), across ticks
// 2. At most MaxPerTick items run per tick; the remainder keeps its order
// 3. Items of one tick run back to back on one goroutine
