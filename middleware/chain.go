package middleware

import (
	"fmt"

	"github.com/bryanbartow/reactor"
)

// Chain composes middlewares into one that runs them in the order given.
// Nil entries are skipped.
func Chain[S reactor.State[S]](mws ...reactor.Middleware[S]) reactor.Middleware[S] {
	list := make([]reactor.Middleware[S], 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			list = append(list, mw)
		}
	}
	return reactor.MiddlewareFunc[S](func(event reactor.Event, state S) {
		for _, mw := range list {
			mw.Process(event, state)
		}
	})
}

// eventType names an event by its dynamic Go type.
func eventType(event reactor.Event) string {
	return fmt.Sprintf("%T", event)
}
