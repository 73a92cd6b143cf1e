package mining

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is the cause carried by a DecodingError.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// DecodingError reports a line whose bytes are not valid text. It is fatal to
// the document being mined but not to the run; output already written for
// the document stays in place.
type DecodingError struct {
	Document string // path of the document
	Line     int    // 1-based line number, 0 when unknown
	Err      error
}

func (e *DecodingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Document, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Document, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// WriteError reports that the output sink rejected a write. The sink is
// considered unusable, so the whole run stops.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsDocumentScoped reports whether err only affects the document it came
// from, so the run can continue with the next document. Write failures and
// cancellation are run scoped.
func IsDocumentScoped(err error) bool {
	if err == nil {
		return false
	}
	var werr *WriteError
	if errors.As(err, &werr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
