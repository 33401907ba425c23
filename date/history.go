package date

import (
	"iter"
	"slices"
)

// History stores a series of values keyed by day, kept in chronological order
// with unique days. The zero value is an empty, ready to use history.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of entries.
func (h *History[T]) Len() int { return len(h.days) }

// Append records a value for a day. An existing value on that day is
// replaced, the newest data wins.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value recorded exactly on 'day'.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on 'day' or the most recent value before it.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := h.search(day)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}

// Latest returns the last day and value, or zero values on an empty history.
func (h *History[T]) Latest() (Date, T) {
	if len(h.days) == 0 {
		var zero T
		return Date{}, zero
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Values iterates over all (day, value) pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, day := range h.days {
			if !yield(day, h.values[i]) {
				return
			}
		}
	}
}

// Slice returns the values in chronological order as a new slice.
func (h *History[T]) Slice() []T {
	return slices.Clone(h.values)
}

// search returns the insertion index for 'day' and whether it is present.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Compare)
}
