package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNilRequest       = errors.New("dispatch: nil request")
	ErrNoHandler        = errors.New("dispatch: no handler registered")
	ErrDuplicateHandler = errors.New("dispatch: handler already registered")
	ErrRequestMismatch  = errors.New("dispatch: request type does not match registration")
)

// Request is an immutable value describing one intended operation.
// RequestName must be unique per concrete type; it is the registration
// key that binds the type to exactly one handler.
type Request interface {
	RequestName() string
}

// HandlerFunc is the typed unit of logic for one request type. It
// returns an envelope for every expected outcome; a non-nil error is an
// unhandled fault that the Mux propagates untouched for the transport
// boundary to catch.
type HandlerFunc[Q Request, T any] func(ctx context.Context, actor Actor, req Q) (Result[T], error)

// erasedHandler is the stored form: typed handlers are wrapped at
// registration time, so dispatch needs no reflection.
type erasedHandler func(ctx context.Context, actor Actor, req Request) (Result[any], error)

// Mux is the request-type to handler table. All registration happens at
// startup, before any Dispatch call; the table is read-only afterwards,
// which is what makes concurrent requests share it safely without locks.
type Mux struct {
	handlers map[string]erasedHandler
}

func NewMux() *Mux {
	return &Mux{handlers: make(map[string]erasedHandler)}
}

// Register binds the handler to the request type Q. Registering a name
// twice is a configuration defect reported immediately so startup can
// refuse to serve.
//
// Package-level because Go does not allow generic methods.
func Register[Q Request, T any](m *Mux, h HandlerFunc[Q, T]) error {
	var zero Q
	name := zero.RequestName()
	if _, dup := m.handlers[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateHandler, name)
	}
	m.handlers[name] = func(ctx context.Context, actor Actor, req Request) (Result[any], error) {
		q, ok := req.(Q)
		if !ok {
			return Result[any]{}, fmt.Errorf("%w: %q got %T", ErrRequestMismatch, name, req)
		}
		res, err := h(ctx, actor, q)
		if err != nil {
			return Result[any]{}, err
		}
		return res.Erase(), nil
	}
	return nil
}

// Registered reports whether a handler exists for the request name.
// Route bindings use it to validate the table before serving traffic.
func (m *Mux) Registered(name string) bool {
	_, ok := m.handlers[name]
	return ok
}

// Names lists registered request names, sorted for stable logs.
func (m *Mux) Names() []string {
	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch locates the one handler for req and runs it exactly once,
// passing the actor and the caller's cancellation through. A cancelled
// context short-circuits before the handler is invoked; there are no
// retries. Either an envelope comes back or the handler's fault does.
func (m *Mux) Dispatch(ctx context.Context, actor Actor, req Request) (Result[any], error) {
	if req == nil {
		return Result[any]{}, ErrNilRequest
	}
	h, ok := m.handlers[req.RequestName()]
	if !ok {
		return Result[any]{}, fmt.Errorf("%w: %q", ErrNoHandler, req.RequestName())
	}
	if err := ctx.Err(); err != nil {
		return Result[any]{}, err
	}
	return h(ctx, actor, req)
}
