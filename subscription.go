package reactor

import (
	"slices"
	"sync/atomic"
	"weak"
)

// subscription is one registered subscriber. The subscriber is only reachable
// through a weak pointer, so the registry never keeps it alive.
type subscription[S any] struct {
	// key is the weak.Pointer of the subscriber. Weak pointers compare equal
	// when made from the same pointer, which gives a stable identity even
	// after the subscriber has been released.
	key       any
	live      func() bool
	notify    func(state S)
	cancelled atomic.Bool
}

func newSubscription[S State[S], T any, P any, PS interface {
	*P
	Subscriber[T]
}](sub PS, project func(S) T, exec Executor) *subscription[S] {
	wp := weak.Make((*P)(sub))
	s := &subscription[S]{key: wp}
	s.live = func() bool {
		return wp.Value() != nil
	}
	s.notify = func(state S) {
		p := wp.Value()
		if p == nil {
			return
		}
		value := project(state)
		exec.Execute(func() {
			// Removed after this delivery was scheduled.
			if s.cancelled.Load() {
				return
			}
			PS(p).Update(value)
		})
	}
	return s
}

// registry holds subscriptions in registration order. It is only touched
// from the core's serialized context.
type registry[S any] struct {
	entries []*subscription[S]
}

func (r *registry[S]) find(key any) *subscription[S] {
	for _, s := range r.entries {
		if s.key == key {
			return s
		}
	}
	return nil
}

func (r *registry[S]) add(s *subscription[S]) {
	r.entries = append(r.entries, s)
}

// remove drops the subscription for key and reports whether one existed.
func (r *registry[S]) remove(key any) bool {
	i := slices.IndexFunc(r.entries, func(s *subscription[S]) bool {
		return s.key == key
	})
	if i < 0 {
		return false
	}
	r.entries[i].cancelled.Store(true)
	r.entries = slices.Delete(r.entries, i, i+1)
	return true
}

// prune drops subscriptions whose subscriber has been released and returns
// how many were dropped.
func (r *registry[S]) prune() int {
	n := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, func(s *subscription[S]) bool {
		if s.live() {
			return false
		}
		s.cancelled.Store(true)
		return true
	})
	return n - len(r.entries)
}

func (r *registry[S]) notify(state S) {
	for _, s := range r.entries {
		s.notify(state)
	}
}
