package server

import (
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/f4ah6o/sfs-go/internal/mime"
	"github.com/f4ah6o/sfs-go/internal/protocol"
)

// exchange carries one request/response pair through the handler states.
type exchange struct {
	srv    *Server
	conn   net.Conn
	req    *protocol.Request
	target target
	res    *protocol.Response
	err    error
}

type stateFunc func(*exchange) stateFunc

// handle runs a single exchange on conn. Failures are answered with a
// best-effort status and never escape.
func (s *Server) handle(conn net.Conn) {
	x := &exchange{srv: s, conn: conn}
	for state := readRequest; state != nil; {
		state = state(x)
	}
}

func readRequest(x *exchange) stateFunc {
	buf := make([]byte, x.srv.cfg.BufferSize)
	if err := x.conn.SetReadDeadline(time.Now().Add(x.srv.cfg.ReadTimeout)); err != nil {
		x.err = ioError("set read deadline", err)
		return fail
	}

	n, err := x.conn.Read(buf)
	// A peer that closes without sending anything is a malformed request,
	// not a transport failure.
	if err != nil && !errors.Is(err, io.EOF) {
		x.err = ioError("read request", err)
		return fail
	}

	req, ok := protocol.ParseRequest(buf[:n])
	if !ok {
		x.res = protocol.NewResponse(protocol.StatusBadRequest)
		return respond
	}
	x.req = req
	return resolveTarget
}

func resolveTarget(x *exchange) stateFunc {
	t, ok := x.srv.resolve(x.req.Resource)
	if !ok {
		x.res = protocol.NewResponse(protocol.StatusNotFound)
		return respond
	}

	if needsRedirect(t, x.req.Resource) {
		x.res = protocol.NewResponse(protocol.StatusFound)
		x.res.SetHeader("Location", x.srv.redirectLocation(t.path))
		return respond
	}

	if t.isDir {
		index, ok := x.srv.indexFor(t.path)
		if !ok {
			x.res = protocol.NewResponse(protocol.StatusNotFound)
			return respond
		}
		t.path = index
	}
	x.target = t
	return dispatch
}

func dispatch(x *exchange) stateFunc {
	switch x.req.Method {
	case protocol.Head:
		return serveFile(false)
	case protocol.Get:
		return serveFile(true)
	default:
		x.res = protocol.NewResponse(protocol.StatusMethodNotAllowed)
		return respond
	}
}

func serveFile(withBody bool) stateFunc {
	return func(x *exchange) stateFunc {
		res, err := fileResponse(x.target.path, withBody)
		if err != nil {
			x.err = err
			return fail
		}
		x.res = res
		return respond
	}
}

// fileResponse builds a 200 response for path. The whole file is read into
// memory when withBody is set.
func fileResponse(path string, withBody bool) (*protocol.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open file", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ioError("stat file", err)
	}

	res := protocol.NewResponse(protocol.StatusOK)
	res.SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	res.SetHeader("Content-Type", mime.ContentType(path))

	if withBody {
		body, err := io.ReadAll(f)
		if err != nil {
			return nil, ioError("read file", err)
		}
		res.SetBody(body)
	}
	return res, nil
}

func respond(x *exchange) stateFunc {
	if err := x.write(x.res); err != nil {
		x.err = err
		return fail
	}
	x.srv.logAccess(x.conn, x.req, x.res.Status)
	return nil
}

// fail sends the status matching x.err. A write error at this point is
// dropped; the connection is already unusable.
func fail(x *exchange) stateFunc {
	status := statusForError(x.err)
	x.srv.logger.Printf("Could not handle request from %s: %v", remoteAddr(x.conn), x.err)
	if err := x.write(protocol.NewResponse(status)); err != nil {
		return nil
	}
	x.srv.logAccess(x.conn, x.req, status)
	return nil
}

func (x *exchange) write(res *protocol.Response) error {
	if err := x.conn.SetWriteDeadline(time.Now().Add(x.srv.cfg.WriteTimeout)); err != nil {
		return ioError("set write deadline", err)
	}
	_, err := x.conn.Write(res.Encode(x.srv.cfg.EOL()))
	return ioError("write response", err)
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "-"
}
