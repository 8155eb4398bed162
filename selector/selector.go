// Package selector implements an incremental-search picker driven by raw terminal keystrokes. The same generic
// Selector serves for any kind of item: the caller supplies how to draw a row and which fields typing filters on.
//
// Typing printable characters narrows the list to items where the typed text is a case-insensitive substring of
// any field; backspace widens it again; the up and down arrows move the caret; Enter picks the item under the
// caret. Ctrl+C aborts with ErrInterrupted after the terminal has been restored.
package selector

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrInterrupted is returned by Select when the user presses Ctrl+C or the input ends.
var ErrInterrupted = errors.New("selection interrupted")

// Selector picks one item out of many.
type Selector[T any] struct {
	title  string
	header string
	row    func(item T, selected bool) string
	fields []Field[T]

	in   io.Reader
	out  io.Writer
	term Terminal
}

// New creates a Selector titled title (a plural noun such as "Lists"). Rows are drawn by row, and typing filters on
// fields.
func New[T any](title string, row func(item T, selected bool) string, fields ...Field[T]) *Selector[T] {
	return &Selector[T]{
		title:  title,
		row:    row,
		fields: fields,
		in:     os.Stdin,
		out:    os.Stdout,
		term:   StdTerminal{},
	}
}

// WithHeader sets text drawn above the list on every redraw, e.g., the details of the item a menu applies to.
func (s *Selector[T]) WithHeader(text string) *Selector[T] {
	s.header = text
	return s
}

// WithIO replaces stdin and stdout.
func (s *Selector[T]) WithIO(in io.Reader, out io.Writer) *Selector[T] {
	s.in = in
	s.out = out
	return s
}

// WithTerminal replaces the terminal whose mode is switched and whose size is queried.
func (s *Selector[T]) WithTerminal(t Terminal) *Selector[T] {
	s.term = t
	return s
}

// Select runs the interactive loop until the user picks an item. It blocks, owns the terminal for its whole
// duration, and always leaves the terminal in the mode it found it in. With no items, Enter does nothing and
// only Ctrl+C gets out.
func (s *Selector[T]) Select(items []T) (T, error) {
	var zero T
	release, err := acquire(s.term)
	if err != nil {
		return zero, err
	}
	defer release()

	st := newState(items, s.fields...)
	var dec decoder
	if err := s.draw(st); err != nil {
		return zero, err
	}
	buf := make([]byte, 256)
	for {
		n, rerr := s.in.Read(buf)
		for _, k := range dec.decode(buf[:n]) {
			if k.kind == keyInterrupt {
				_ = s.write("\n")
				return zero, ErrInterrupted
			}
			if st.handle(k) {
				item, _ := st.current()
				_ = s.write("\n")
				return item, nil
			}
			if err := s.draw(st); err != nil {
				return zero, err
			}
		}
		if rerr == io.EOF {
			return zero, ErrInterrupted
		}
		if rerr != nil {
			return zero, fmt.Errorf("select: read: %w", rerr)
		}
	}
}

func (s *Selector[T]) draw(st *state[T]) error {
	_, height := s.term.Size()
	if err := s.write(s.frame(st, height)); err != nil {
		return fmt.Errorf("select: draw: %w", err)
	}
	return nil
}

// write translates newlines for raw mode, where the terminal no longer adds the carriage return.
func (s *Selector[T]) write(text string) error {
	_, err := io.WriteString(s.out, strings.ReplaceAll(text, "\n", "\r\n"))
	return err
}
