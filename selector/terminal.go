package selector

import (
	"errors"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// ErrTerminalBusy is returned by Select when another selection already owns the terminal.
var ErrTerminalBusy = errors.New("terminal is in use by another selection")

// Terminal puts the terminal in raw mode and reports its size.
type Terminal interface {
	// MakeRaw switches to raw mode and returns a function that restores the previous mode.
	MakeRaw() (restore func() error, err error)
	// Size returns the terminal's width and height.
	Size() (width, height int)
}

// StdTerminal is the process's controlling terminal: input from stdin, size from stdout.
type StdTerminal struct{}

// MakeRaw implements Terminal. When stdin is not a terminal, e.g., input is piped, it does nothing.
func (StdTerminal) MakeRaw() (func() error, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(fd, old) }, nil
}

// Size implements Terminal, falling back to 80x24.
func (StdTerminal) Size() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// owner guards the terminal's raw mode and the input stream, which only one selection may use at a time.
var owner sync.Mutex

// acquire takes ownership of the terminal and enters raw mode. The returned release function must be called on
// every exit path.
func acquire(t Terminal) (release func(), err error) {
	if !owner.TryLock() {
		return nil, ErrTerminalBusy
	}
	restore, err := t.MakeRaw()
	if err != nil {
		owner.Unlock()
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	return func() {
		if err := restore(); err != nil {
			log.WithFields(log.Fields{
				"op":    "select",
				"cause": err,
			}).Warning("Could not restore terminal mode")
		}
		owner.Unlock()
	}, nil
}
