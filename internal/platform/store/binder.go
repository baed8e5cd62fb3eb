package store

// Binder is a tiny factory that binds a domain repo to a specific RowQuerier
// It lets services run the same repo against the pool or inside a transaction
type Binder[T any] interface {
	Bind(RowQuerier) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(RowQuerier) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q RowQuerier) T { return f(q) }

// RequireQueryer panics early on programmer error (nil q)
func RequireQueryer(q RowQuerier) RowQuerier {
	if q == nil {
		panic("store: nil RowQuerier")
	}
	return q
}

// MustBind is a convenience that validates q then binds
func MustBind[T any](b Binder[T], q RowQuerier) T {
	return b.Bind(RequireQueryer(q))
}
