// Package protocol holds the small slice of HTTP/1.1 the server speaks:
// request methods, response statuses, request-line parsing and response
// serialization.
package protocol

import (
	"errors"
	"fmt"
)

// Method is a request method.
type Method int

const (
	Options Method = iota
	Head
	Get
	Post
	Patch
	Put
	Delete
)

// ErrUnknownMethod is returned by ParseMethod for tokens outside the Method set.
var ErrUnknownMethod = errors.New("unknown method")

var methodNames = [...]string{
	Options: "OPTIONS",
	Head:    "HEAD",
	Get:     "GET",
	Post:    "POST",
	Patch:   "PATCH",
	Put:     "PUT",
	Delete:  "DELETE",
}

// ParseMethod parses an uppercase method token. Matching is exact.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if s == name {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Status is a response status. Each value has a fixed code and reason phrase.
type Status int

const (
	StatusOK Status = iota
	StatusFound
	StatusBadRequest
	StatusNotFound
	StatusMethodNotAllowed
	StatusRequestTimeout
	StatusInternalServerError
)

// Code returns the numeric status code.
func (s Status) Code() int {
	switch s {
	case StatusOK:
		return 200
	case StatusFound:
		return 302
	case StatusBadRequest:
		return 400
	case StatusNotFound:
		return 404
	case StatusMethodNotAllowed:
		return 405
	case StatusRequestTimeout:
		return 408
	case StatusInternalServerError:
		return 500
	default:
		return 0
	}
}

// Text returns the reason phrase.
func (s Status) Text() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusFound:
		return "Found"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	case StatusMethodNotAllowed:
		return "Method Not Allowed"
	case StatusRequestTimeout:
		return "Request Timeout"
	case StatusInternalServerError:
		return "Internal Server Error"
	default:
		return ""
	}
}

func (s Status) String() string {
	if s.Code() == 0 {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return fmt.Sprintf("%d %s", s.Code(), s.Text())
}
