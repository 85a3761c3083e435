package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Line endings understood by Response.Encode.
const (
	LF   = "\n"
	CRLF = "\r\n"
)

// Response is a status, a set of headers and an optional body.
type Response struct {
	Status  Status
	Headers map[string]string
	// Body is written after a blank line. A nil Body omits the blank line too.
	Body []byte
}

// NewResponse returns a Response with no headers and no body.
func NewResponse(status Status) *Response {
	return &Response{
		Status:  status,
		Headers: make(map[string]string),
	}
}

// SetHeader sets key to value, replacing any previous value.
func (r *Response) SetHeader(key, value string) {
	r.Headers[key] = value
}

// SetBody attaches body. Passing nil removes the body section.
func (r *Response) SetBody(body []byte) {
	r.Body = body
}

// Bytes serializes the response with bare "\n" line endings.
func (r *Response) Bytes() []byte {
	return r.Encode(LF)
}

// Encode serializes the response using eol as the line terminator.
// Headers are written in sorted key order.
func (r *Response) Encode(eol string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(r.Body) + 64)

	fmt.Fprintf(&buf, "HTTP/1.1 %d %s%s", r.Status.Code(), r.Status.Text(), eol)
	for _, key := range slices.Sorted(maps.Keys(r.Headers)) {
		fmt.Fprintf(&buf, "%s: %s%s", key, r.Headers[key], eol)
	}
	if r.Body != nil {
		buf.WriteString(eol)
		buf.Write(r.Body)
	}
	return buf.Bytes()
}

// ErrMalformedStatusLine is returned by ParseStatusLine.
var ErrMalformedStatusLine = errors.New("malformed status line")

// ParseStatusLine extracts the code and reason phrase from the first line of
// a serialized response. Either line ending is accepted.
func ParseStatusLine(b []byte) (code int, reason string, err error) {
	line, _, _ := bytes.Cut(b, []byte("\n"))
	fields := strings.SplitN(strings.TrimSuffix(string(line), "\r"), " ", 3)
	if len(fields) < 3 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}
	code, err = strconv.Atoi(fields[1])
	if err != nil || code < 100 || code > 599 {
		return 0, "", fmt.Errorf("%w: invalid status code %q", ErrMalformedStatusLine, fields[1])
	}
	return code, fields[2], nil
}
