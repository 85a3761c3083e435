package server

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/f4ah6o/sfs-go/internal/protocol"
)

// ErrInvalidDirectory is returned by New when the root is missing or is not a
// directory.
var ErrInvalidDirectory = errors.New("invalid directory")

// IOError wraps a transport or filesystem failure with the operation that
// produced it.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a read or write deadline.
func (e *IOError) Timeout() bool {
	if errors.Is(e.Err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// statusForError picks the best-effort status sent after a failed exchange.
func statusForError(err error) protocol.Status {
	var ioErr *IOError
	if errors.As(err, &ioErr) && ioErr.Timeout() {
		return protocol.StatusRequestTimeout
	}
	return protocol.StatusInternalServerError
}
