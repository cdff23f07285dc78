// Package scramble implements a client for a pipelined text-transform
// protocol. The client reads "ACTION MESSAGE" request lines from a
// script, sends each as an "ACTION LENGTH MESSAGE" frame over one
// persistent TCP connection without waiting for individual replies,
// and then incrementally decodes the ordered "LENGTH MESSAGE" response
// stream, handing each message to a caller-supplied consumer.
package scramble

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Errors returned by client operations.
var (
	// ErrConnectionClosed is returned when operating on a closed client.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrNoRequests is returned by Run when the script yields no valid
	// requests. A one-shot session with nothing to send is a caller
	// mistake, not an empty success.
	ErrNoRequests = errors.New("script contains no requests")
)

// Client speaks the transform protocol over a single persistent
// connection. Requests are pipelined: a session sends every request
// back to back with no interleaved reads and only then starts decoding
// responses, relying on the server answering in request order over the
// one ordered byte stream.
type Client struct {
	conn   net.Conn
	logger Logger

	opts   options
	closed atomic.Bool
}

// Dial connects to the transform server at host:port.
func Dial(host, port string, opt ...Option) (*Client, error) {
	opts := newOptions(opt...)

	addr := net.JoinHostPort(host, port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", addr)
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	opts.logger.Info("connected", "addr", conn.RemoteAddr())
	return newClientWithOptions(conn, opts), nil
}

// NewClient wraps an established connection. Useful for tests and for
// callers that manage dialing themselves.
func NewClient(conn net.Conn, opt ...Option) *Client {
	return newClientWithOptions(conn, newOptions(opt...))
}

func newClientWithOptions(conn net.Conn, opts options) *Client {
	return &Client{
		conn:   conn,
		logger: opts.logger,
		opts:   opts,
	}
}

// Send encodes one request and writes it in full. The transport may
// accept fewer bytes than offered in a single write, so the frame is
// written in a loop until every byte is on the wire.
func (c *Client) Send(action Action, message []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	if err := writeFull(c.conn, EncodeRequest(action, message)); err != nil {
		return errors.Wrap(err, "send request")
	}

	c.logger.Debug("request sent", "action", action, "length", len(message))
	return nil
}

// Receive decodes response frames from the connection until the
// consumer reports completion or the server closes the stream.
func (c *Client) Receive(consumer Consumer) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	return newDecoder(c.conn, c.opts).Run(consumer)
}

// Run drives a whole session: every valid request in the script is
// sent first, in script order, then responses are decoded until the
// consumer is done or the connection closes. The consumer sees
// responses in exactly the order the requests went out.
func (c *Client) Run(script io.Reader, consumer Consumer) error {
	reader := newScriptReader(script, c.opts)

	sent := 0
	for {
		req, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err = c.Send(req.Action, req.Message); err != nil {
			return err
		}
		sent++
	}

	if sent == 0 {
		return ErrNoRequests
	}

	c.logger.Info("requests sent, awaiting responses", "count", sent)
	return c.Receive(consumer)
}

// Close closes the underlying connection. Safe to call multiple times.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil // already closed
	}
	return c.conn.Close()
}

// Addr returns the remote address of the connection.
func (c *Client) Addr() net.Addr {
	return c.conn.RemoteAddr()
}

// writeFull writes data to w completely, retrying on partial writes
// and accumulating the total until the whole slice is transmitted.
func writeFull(w io.Writer, data []byte) error {
	for sent := 0; sent < len(data); {
		n, err := w.Write(data[sent:])
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		sent += n
	}
	return nil
}
