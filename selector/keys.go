package selector

const (
	etx = 0x03
	bs  = 0x08
	esc = 0x1b
	del = 0x7f
)

type keyKind int

const (
	keyNone keyKind = iota
	keyUp
	keyDown
	keyEnter
	keyBackspace
	keyInterrupt
	keyChar
)

func (k keyKind) String() string {
	switch k {
	case keyUp:
		return "up"
	case keyDown:
		return "down"
	case keyEnter:
		return "enter"
	case keyBackspace:
		return "backspace"
	case keyInterrupt:
		return "interrupt"
	case keyChar:
		return "char"
	default:
		return "none"
	}
}

type key struct {
	kind keyKind
	ch   byte // For keyChar
}

// decoder turns raw terminal input into keys. Escape sequences split across reads are kept in pending until the
// rest arrives.
type decoder struct {
	pending []byte
}

func (d *decoder) decode(chunk []byte) []key {
	// A read consisting of ESC alone is the Escape key, not the start of a sequence.
	if len(d.pending) == 0 && len(chunk) == 1 && chunk[0] == esc {
		return nil
	}
	// ESC ending the previous read and no CSI following: that ESC was the Escape key.
	if len(d.pending) == 1 && len(chunk) > 0 && chunk[0] != '[' {
		d.pending = nil
	}
	buf := append(d.pending, chunk...)
	d.pending = nil
	var keys []key
	for i := 0; i < len(buf); {
		b := buf[i]
		if b == esc {
			n, k, complete := parseEscape(buf[i:])
			if !complete {
				d.pending = append([]byte(nil), buf[i:]...)
				return keys
			}
			if k.kind != keyNone {
				keys = append(keys, k)
			}
			i += n
			continue
		}
		switch {
		case b == '\r' || b == '\n':
			keys = append(keys, key{kind: keyEnter})
		case b == del || b == bs:
			keys = append(keys, key{kind: keyBackspace})
		case b == etx:
			keys = append(keys, key{kind: keyInterrupt})
		case b >= 0x20 && b <= 0x7e:
			keys = append(keys, key{kind: keyChar, ch: b})
		}
		i++
	}
	return keys
}

// parseEscape parses the escape sequence at the start of b, returning its length and the key it stands for
// (keyNone for sequences that are recognized only to be discarded). Only the up and down arrows mean anything.
func parseEscape(b []byte) (n int, k key, complete bool) {
	if len(b) < 2 {
		return 0, k, false
	}
	if b[1] != '[' {
		return 2, k, true
	}
	// CSI: parameter and intermediate bytes up to a final byte in 0x40-0x7e.
	for j := 2; j < len(b); j++ {
		c := b[j]
		if c >= 0x40 && c <= 0x7e {
			if j == 2 {
				switch c {
				case 'A':
					k.kind = keyUp
				case 'B':
					k.kind = keyDown
				}
			}
			return j + 1, k, true
		}
	}
	return 0, k, false
}
