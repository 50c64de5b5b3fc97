package reactor

import (
	"context"
	"slices"
	"unsafe"
	"weak"

	"github.com/bryanbartow/reactor/internal/queue"
)

// Option configures a Core via the functional options pattern.
type Option[S State[S]] func(*Core[S])

// WithMiddleware appends middlewares. They run in the order given, after
// every event, and cannot be changed once New returns.
func WithMiddleware[S State[S]](mws ...Middleware[S]) Option[S] {
	return func(c *Core[S]) {
		for _, mw := range mws {
			if mw != nil {
				c.middlewares = append(c.middlewares, mw)
			}
		}
	}
}

// WithDeliveryExecutor sets the executor used by subscriptions that do not
// pick one with DeliverOn. The default is a SerialExecutor owned by the core.
func WithDeliveryExecutor[S State[S]](exec Executor) Option[S] {
	return func(c *Core[S]) {
		c.delivery = exec
	}
}

// Core owns the state and serializes every change to it.
//
// Fire, FireCommand and Subscribe return immediately; their work runs later,
// one operation at a time and in submission order, on the core's serialized
// context. Unsubscribe is the exception: it waits for the removal to be
// applied so the subscriber can be torn down right after it returns.
//
// Thread-safe for concurrent use from multiple goroutines.
type Core[S State[S]] struct {
	queue       *queue.Queue
	state       S
	middlewares []Middleware[S]
	subs        registry[S]
	delivery    Executor
}

// New creates a Core holding initial.
func New[S State[S]](initial S, opts ...Option[S]) *Core[S] {
	c := &Core[S]{
		queue: queue.New(),
		state: initial,
	}

	// Apply functional options
	for _, opt := range opts {
		opt(c)
	}

	if c.delivery == nil {
		c.delivery = NewSerialExecutor()
	}
	c.middlewares = slices.Clip(c.middlewares)
	return c
}

// Fire enqueues event. When its turn comes the state becomes
// state.React(event), every live subscription is notified, and then the
// middlewares process the event with the new state.
func (c *Core[S]) Fire(event Event) {
	c.queue.Submit(func() {
		c.apply(event)
	})
}

// FireCommand enqueues cmd. It runs with the state as of its turn; events it
// fires are queued behind everything already submitted.
func (c *Core[S]) FireCommand(cmd Command[S]) {
	if cmd == nil {
		return
	}
	c.queue.Submit(func() {
		cmd.Execute(c.state, c)
	})
}

// Snapshot waits for every operation submitted before it and returns the
// resulting state. It returns ctx.Err() if ctx ends first.
func (c *Core[S]) Snapshot(ctx context.Context) (S, error) {
	ch := make(chan S, 1)
	c.queue.Submit(func() {
		ch <- c.state
	})
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// Subscriptions returns the number of registered subscriptions, including
// released subscribers that have not been pruned yet. It waits for every
// operation submitted before it.
func (c *Core[S]) Subscriptions() int {
	var n int
	c.queue.SubmitWait(func() {
		n = len(c.subs.entries)
	})
	return n
}

// apply runs on the serialized context.
func (c *Core[S]) apply(event Event) {
	c.state = c.state.React(event)
	c.subs.notify(c.state)
	for _, mw := range c.middlewares {
		mw.Process(event, c.state)
	}
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	exec Executor
}

// DeliverOn delivers the subscription's updates on exec instead of the
// core's default delivery executor.
func DeliverOn(exec Executor) SubscribeOption {
	return func(cfg *subscribeConfig) {
		cfg.exec = exec
	}
}

// Subscribe registers sub to receive project(state) after every change.
//
// The registration is enqueued like any other operation. When it runs it is
// a no-op if sub is already subscribed; otherwise released subscribers are
// pruned, sub is registered and immediately receives the current state.
//
// The core holds sub weakly: once sub is no longer referenced elsewhere it
// stops receiving updates and its entry is pruned by a later Subscribe or
// Unsubscribe. project runs on the serialized context and must not retain
// sub. Subscribers are identified by address, so zero-size types are
// rejected with a panic.
func Subscribe[S State[S], T any, P any, PS interface {
	*P
	Subscriber[T]
}](c *Core[S], sub PS, project func(S) T, opts ...SubscribeOption) {
	if sub == nil {
		return
	}
	if project == nil {
		panic("reactor: nil projection")
	}
	if unsafe.Sizeof(*sub) == 0 {
		panic("reactor: zero-size subscriber has no identity")
	}
	cfg := subscribeConfig{exec: c.delivery}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.exec == nil {
		cfg.exec = c.delivery
	}

	s := newSubscription[S, T, P, PS](sub, project, cfg.exec)
	c.queue.Submit(func() {
		c.subscribe(s)
	})
}

// SubscribeState registers sub to receive the full state.
func SubscribeState[S State[S], P any, PS interface {
	*P
	Subscriber[S]
}](c *Core[S], sub PS, opts ...SubscribeOption) {
	Subscribe[S, S, P, PS](c, sub, identity[S], opts...)
}

// Unsubscribe removes sub and prunes released subscribers. It blocks until
// the removal has been applied. Deliveries scheduled before the call but not
// yet started are dropped. An Update already running on another executor is
// not interrupted, and one whose executor has just passed the cancellation
// check may still start right after Unsubscribe returns. Subscribers that
// release resources on teardown should tolerate one late Update.
//
// Unsubscribe must not be called from the core's serialized context
// (commands, middlewares, projections or Inline deliveries): it would wait
// on itself.
func Unsubscribe[S State[S], P any](c *Core[S], sub *P) {
	if sub == nil || unsafe.Sizeof(*sub) == 0 {
		return
	}
	key := any(weak.Make(sub))
	c.queue.SubmitWait(func() {
		c.subs.remove(key)
		c.subs.prune()
	})
}

func (c *Core[S]) subscribe(s *subscription[S]) {
	if c.subs.find(s.key) != nil {
		return
	}
	c.subs.prune()
	c.subs.add(s)
	s.notify(c.state)
}

func identity[S any](s S) S { return s }
