// Package recipient turns user-supplied text, CSV files and command-line pairs
// into a validated list of disperse recipients.
package recipient

import (
	"fmt"
	"sort"
	"strings"
)

// Recipient is one (address, amount) candidate.
type Recipient struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Label   string `json:"label,omitempty"` // optional third CSV column
	Line    int    `json:"line"`            // 1-based source line, 0 for flag input
}

// Kind classifies a per-line input error.
type Kind string

const (
	KindMalformedLine  Kind = "malformed-line"
	KindInvalidAddress Kind = "invalid-address"
	KindInvalidAmount  Kind = "invalid-amount"
)

// LineError is a single rejected input line.
type LineError struct {
	Line  int
	Kind  Kind
	Value string
	Msg   string
}

func (e LineError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
}

// ValidationError collects every rejected line of a batch. A batch with a
// ValidationError is never partially accepted.
type ValidationError struct {
	Errors []LineError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, le := range e.Errors {
		msgs[i] = le.Error()
	}
	return fmt.Sprintf("invalid recipient list (%d error(s)):\n%s", len(e.Errors), strings.Join(msgs, "\n"))
}

// Lines returns the line numbers that failed, in ascending order.
func (e *ValidationError) Lines() []int {
	out := make([]int, len(e.Errors))
	for i, le := range e.Errors {
		out[i] = le.Line
	}
	return out
}

func (e *ValidationError) add(le LineError) {
	e.Errors = append(e.Errors, le)
}

// err returns nil when nothing was collected so callers can `return nil, v.err()`.
func (e *ValidationError) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	sort.SliceStable(e.Errors, func(i, j int) bool { return e.Errors[i].Line < e.Errors[j].Line })
	return e
}

// merge appends other's errors, tolerating a nil or non-validation error.
func (e *ValidationError) merge(err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(*ValidationError); ok {
		e.Errors = append(e.Errors, ve.Errors...)
	}
}
