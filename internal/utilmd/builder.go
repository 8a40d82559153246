package utilmd

// listBuilder accumulates entities that may legitimately occur multiple
// times per transaction. It implements Builder[[]T].
type listBuilder[T any] struct {
	values []T
}

func (b *listBuilder[T]) add(v T) {
	b.values = append(b.values, v)
}

func (b *listBuilder[T]) Empty() bool {
	return len(b.values) == 0
}

// Finalize returns the accumulated values and clears the accumulation.
func (b *listBuilder[T]) Finalize() []T {
	out := b.values
	b.values = nil
	return out
}

func (b *listBuilder[T]) Reset() {
	b.values = nil
}
