package protocol

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DefaultBufferSize is the number of bytes read for a request.
// Anything the client sends beyond it is ignored.
const DefaultBufferSize = 1024

// Request is the request line of a single exchange.
type Request struct {
	Method Method
	// Resource is the second space-separated token exactly as received.
	// It is neither URL-decoded nor split at '?'.
	Resource string
}

// ParseRequest builds a Request from the bytes of a single read.
//
// The buffer is split on ASCII spaces. The first token is decoded leniently,
// with invalid UTF-8 replaced, and must name a Method. The second token must be
// valid UTF-8 and is used verbatim as the resource. Anything after it, such as
// the protocol version and headers, is ignored.
//
// ok is false when the buffer holds fewer than two tokens, the method is
// unknown, or the resource is not valid UTF-8.
func ParseRequest(buf []byte) (req *Request, ok bool) {
	tokens := bytes.SplitN(buf, []byte{' '}, 3)
	if len(tokens) < 2 {
		return nil, false
	}

	method, err := ParseMethod(lossyString(tokens[0]))
	if err != nil {
		return nil, false
	}

	if !utf8.Valid(tokens[1]) {
		return nil, false
	}

	return &Request{Method: method, Resource: string(tokens[1])}, true
}

func lossyString(b []byte) string {
	s, _, err := transform.Bytes(runes.ReplaceIllFormed(), b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte(string(utf8.RuneError))))
	}
	return string(s)
}
