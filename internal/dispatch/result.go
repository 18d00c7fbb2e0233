// Package dispatch routes typed request values to their registered
// handlers and defines the envelope every handler answers with.
package dispatch

// Unit is the payload for operations that succeed without data, such
// as deletes. It serializes as an empty JSON object.
type Unit struct{}

// Result is the success/failure envelope handlers return. Fields are
// unexported so the invariant (success carries no error code, failure
// carries no data) can only be established through Success and Failure.
type Result[T any] struct {
	succeeded bool
	data      T
	message   string
	errorCode string
}

// Success builds a succeeded envelope around data.
func Success[T any](data T) Result[T] {
	return Result[T]{succeeded: true, data: data}
}

// SuccessMsg is Success with a human-readable note attached.
func SuccessMsg[T any](data T, message string) Result[T] {
	return Result[T]{succeeded: true, data: data, message: message}
}

// Failure builds a failed envelope for a handled business outcome.
// The data field stays zero; errorCode should be one of the closed set
// in the domain package.
func Failure[T any](message, errorCode string) Result[T] {
	return Result[T]{message: message, errorCode: errorCode}
}

func (r Result[T]) Succeeded() bool   { return r.succeeded }
func (r Result[T]) Message() string   { return r.message }
func (r Result[T]) ErrorCode() string { return r.errorCode }

// Data returns the payload. It is the zero value on failed envelopes.
func (r Result[T]) Data() T { return r.data }

// Erase converts a typed envelope into the any-typed form the Mux hands
// back to the transport layer. Failed envelopes keep a nil payload so
// the invariant survives erasure.
func (r Result[T]) Erase() Result[any] {
	out := Result[any]{succeeded: r.succeeded, message: r.message, errorCode: r.errorCode}
	if r.succeeded {
		out.data = r.data
	}
	return out
}
