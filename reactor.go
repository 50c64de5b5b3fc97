// Package reactor is a unidirectional data flow engine.
//
// A Core owns a single state value that changes only by reacting to events.
// Every change is delivered to the registered subscribers, each on its own
// Executor, and then handed to the middlewares in registration order.
// Commands read a snapshot of the state and fire further events.
//
//	type Counter struct{ Count int }
//
//	func (c Counter) React(e reactor.Event) Counter {
//		if _, ok := e.(Increment); ok {
//			c.Count++
//		}
//		return c
//	}
//
//	core := reactor.New(Counter{})
//	reactor.SubscribeState(core, view)
//	core.Fire(Increment{})
package reactor

// Event is an opaque trigger for a state transition.
type Event any

// State is the contract of a state container: React returns the next state
// for an event. React must be a pure function of the receiver and the event.
type State[S any] interface {
	React(event Event) S
}

// Command is a unit of work bound to one state type. Execute receives a
// snapshot of the state and the core it runs on; the only way for a command
// to change the state is to fire events through the core.
type Command[S State[S]] interface {
	Execute(state S, core *Core[S])
}

// CommandFunc adapts a function to a Command.
type CommandFunc[S State[S]] func(state S, core *Core[S])

// Execute calls f(state, core).
func (f CommandFunc[S]) Execute(state S, core *Core[S]) {
	f(state, core)
}

// Middleware observes every event together with the state it produced.
// Process runs on the core's serialized context, so slow work should be
// handed off elsewhere.
type Middleware[S State[S]] interface {
	Process(event Event, state S)
}

// MiddlewareFunc adapts a function to a Middleware.
type MiddlewareFunc[S State[S]] func(event Event, state S)

// Process calls f(event, state).
func (f MiddlewareFunc[S]) Process(event Event, state S) {
	f(event, state)
}

// Subscriber receives state updates, already projected to T.
type Subscriber[T any] interface {
	Update(value T)
}

// Executor is a delivery context. Execute must run work exactly once;
// executors used for subscriptions must run work in submission order.
type Executor interface {
	Execute(work func())
}
