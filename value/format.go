package value

import (
	"fmt"
	"io"
	"strconv"
)

// FormatError is returned by a formatter or Writer when writing output
// fails. It optionally wraps an underlying error (e.g. an io.Writer
// failure) for later inspection, grounded on upon's fmt::Error /
// io::Error bridging in src/fmt.rs.
type FormatError struct {
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "format error"
}

func (e *FormatError) Unwrap() error { return e.Cause }

// Sink is the narrow write facade a Formatter writes through: either a
// strings.Builder or an io.Writer, matching upon's Formatter<'a> which
// wraps either a String buffer or an io::Write.
type Sink interface {
	WriteString(s string) (int, error)
}

// Writer adapts an io.Writer into a Sink, stashing the last I/O error it
// saw so the caller can recover the original error after rendering
// returns a generic FormatError, mirroring upon's Writer<W> wrapper.
type Writer struct {
	W   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer { return &Writer{W: w} }

func (w *Writer) WriteString(s string) (int, error) {
	n, err := io.WriteString(w.W, s)
	if err != nil {
		w.err = err
		return n, &FormatError{Message: "io error", Cause: err}
	}
	return n, nil
}

// TakeErr returns and clears the last underlying I/O error observed.
func (w *Writer) TakeErr() error {
	err := w.err
	w.err = nil
	return err
}

// FormatFunc renders a value to a sink; used for both filters-as-
// formatters and the caller-supplied default formatter.
type FormatFunc func(sink Sink, v Value) error

// DefaultFormat is the built-in default formatter, grounded on
// upon's fmt::default. None emits nothing; scalars use their natural
// text form (floats use Go's shortest round-trip representation);
// List and Map are not directly formattable.
func DefaultFormat(sink Sink, v Value) error {
	switch v.Kind() {
	case KindNone:
		return nil
	case KindBool:
		_, err := sink.WriteString(strconv.FormatBool(v.AsBool()))
		return err
	case KindInteger:
		_, err := sink.WriteString(strconv.FormatInt(v.AsInteger(), 10))
		return err
	case KindFloat:
		_, err := sink.WriteString(strconv.FormatFloat(v.AsFloat(), 'g', -1, 64))
		return err
	case KindString:
		_, err := sink.WriteString(v.AsString())
		return err
	default:
		return &FormatError{Message: fmt.Sprintf("expression evaluated to unformattable type %s", v.Human())}
	}
}
