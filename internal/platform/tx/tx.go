package tx

import "context"

// Manager runs fn as one read-modify-write unit over the state document.
// Calls made with a ctx that is already inside a unit join it, so a library
// move that seeds a review persists once.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Direct runs fn without any isolation. Constructors fall back to it when no
// Manager is wired.
type Direct struct{}

func (Direct) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
