package cleaner

import (
	"errors"
	"fmt"
)

// Direction selects which way FindMatching walks from its start offset.
type Direction int

const (
	// Forward scans toward the end of the text.
	Forward Direction = iota
	// Backward scans toward the start of the text.
	Backward
)

var (
	// ErrUnbalancedDelimiter is returned when a scan runs off the text before
	// the nesting depth returns to zero.
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")
	// ErrUnbalancedDoubleDelimiter is reported when a document holds an odd
	// number of $$ markers.
	ErrUnbalancedDoubleDelimiter = errors.New("unbalanced double delimiter")
)

// UnbalancedError records where a failed scan started.
type UnbalancedError struct {
	Open  byte
	Close byte
	From  int
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("no matching %q/%q pair from offset %d", e.Open, e.Close, e.From)
}

// Unwrap lets errors.Is match ErrUnbalancedDelimiter.
func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalancedDelimiter
}

// FindMatching looks for the delimiter that closes the group surrounding
// from. Scanning forward it returns the offset of the first unmatched close;
// scanning backward, the offset of the first unmatched open. The byte at
// from itself is inspected. Delimiters escaped by an odd run of backslashes
// do not count.
func FindMatching(text string, from int, open, close byte, dir Direction) (int, error) {
	deeper, shallower := open, close
	step := 1
	if dir == Backward {
		deeper, shallower = close, open
		step = -1
	}

	depth := 1
	for i := from; i >= 0 && i < len(text); i += step {
		c := text[i]
		if c != deeper && c != shallower {
			continue
		}
		if isEscaped(text, i) {
			continue
		}
		if c == deeper {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return i, nil
		}
	}
	return -1, &UnbalancedError{Open: open, Close: close, From: from}
}

// isEscaped reports whether the byte at pos is preceded by an odd number of
// backslashes.
func isEscaped(text string, pos int) bool {
	n := 0
	for i := pos - 1; i >= 0 && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
