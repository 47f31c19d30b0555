package store

// Cache is an optional read-through cache consulted by Store.Get and kept
// coherent with successful mutations.
type Cache[T any] interface {
	Get(id string) (T, bool)
	Set(id string, value T)
	Delete(id string)
}

type noopCache[T any] struct{}

func (noopCache[T]) Get(string) (T, bool) {
	var zero T
	return zero, false
}

func (noopCache[T]) Set(string, T) {}

func (noopCache[T]) Delete(string) {}
