package realtime

// processTick runs one batch. Caller holds tickMu.
func (l *Loop) processTick() {
	// Phase 1: Collect work atomically
	batch := l.collect()

	// Phase 2: Run in submission order
	for _, w := range batch {
		l.run(w)
	}
}

// collect removes up to maxPerTick items from the head of the batch.
func (l *Loop) collect() []Work {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	n := min(len(l.batch), l.maxPerTick)
	out := make([]Work, n)
	copy(out, l.batch[:n])

	rest := make([]Work, len(l.batch)-n, max(cap(l.batch), l.maxPerTick))
	copy(rest, l.batch[n:])
	l.batch = rest

	return out
}

// run executes one item. A panic is recovered so a single subscriber cannot
// stop the loop.
func (l *Loop) run(w Work) {
	defer func() {
		if r := recover(); r != nil && l.logger != nil {
			l.logger.Printf("realtime: work #%d panicked: %v", w.SequenceNum, r)
		}
	}()
	w.Run()
}
