package selector

import "strings"

// Field extracts one searchable value from an item. Returning false means the item has no such value, and the
// field then never matches.
type Field[T any] func(item T) (value string, ok bool)

// Text adapts a plain accessor into a Field that is always present.
func Text[T any](get func(T) string) Field[T] {
	return func(item T) (string, bool) {
		return get(item), true
	}
}

// Optional adapts an accessor into a Field that is absent when the value is empty.
func Optional[T any](get func(T) string) Field[T] {
	return func(item T) (string, bool) {
		v := get(item)
		return v, v != ""
	}
}

// Filter returns the items for which text is a case-insensitive substring of at least one present field, in their
// original order. An empty text matches every item.
func Filter[T any](items []T, text string, fields ...Field[T]) []T {
	filtered := make([]T, 0, len(items))
	if text == "" {
		return append(filtered, items...)
	}
	needle := strings.ToLower(text)
	for _, item := range items {
		if matches(item, needle, fields) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matches[T any](item T, needle string, fields []Field[T]) bool {
	for _, field := range fields {
		if v, ok := field(item); ok && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// state is the selector's state machine, free of any terminal concerns.
//
// Invariant: 0 <= selected < max(1, len(filtered)).
type state[T any] struct {
	items    []T
	fields   []Field[T]
	filter   string
	filtered []T
	selected int
}

func newState[T any](items []T, fields ...Field[T]) *state[T] {
	s := &state[T]{items: items, fields: fields}
	s.refilter()
	return s
}

// refilter always starts over from the full list, so that backspacing yields exactly the same result as typing
// the shorter filter would have.
func (s *state[T]) refilter() {
	s.filtered = Filter(s.items, s.filter, s.fields...)
}

// handle applies one key and reports whether the selection is complete.
func (s *state[T]) handle(k key) (done bool) {
	switch k.kind {
	case keyUp:
		if s.selected > 0 {
			s.selected--
		}
	case keyDown:
		if s.selected < len(s.filtered)-1 {
			s.selected++
		}
	case keyEnter:
		return len(s.filtered) > 0
	case keyBackspace:
		if s.filter == "" {
			return false
		}
		s.filter = s.filter[:len(s.filter)-1]
		s.refilter()
		if s.selected > len(s.filtered)-1 {
			s.selected = len(s.filtered) - 1
		}
		if s.selected < 0 {
			s.selected = 0
		}
	case keyChar:
		s.filter += string(k.ch)
		s.refilter()
		s.selected = 0
	}
	return false
}

// current returns the selected item, if any.
func (s *state[T]) current() (T, bool) {
	var zero T
	if len(s.filtered) == 0 {
		return zero, false
	}
	return s.filtered[s.selected], true
}
