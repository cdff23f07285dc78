package scramble

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Consumer receives decoded response messages, one call per frame, in
// the order the server produced them. Returning true marks the session
// complete: the decoder stops immediately and discards any bytes still
// buffered behind the frame just delivered.
type Consumer interface {
	Consume(message []byte) (done bool)
}

// ConsumerFunc adapts an ordinary function to the Consumer interface.
type ConsumerFunc func(message []byte) bool

// Consume calls f.
func (f ConsumerFunc) Consume(message []byte) bool {
	return f(message)
}

// ProtocolError reports buffered response bytes that cannot be the
// start of a frame. It is returned only when strict framing is enabled
// via StrictFramingOption; otherwise the decoder discards the bytes
// and resynchronizes on the next read.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

// maxLengthDigits bounds the decimal run of a length header. A longer
// run declares a length no session could satisfy, so it is treated as
// stream misalignment rather than an unfinished header.
const maxLengthDigits = 18

// Decoder reassembles "<length> <message>" response frames out of
// arbitrarily fragmented reads from a byte stream.
//
// The decoder owns a growable receive buffer holding, at any point, at
// most one partially received frame: after every read it drains every
// complete frame to the consumer before blocking on the stream again,
// so pipelined back-to-back frames arriving in a single read all
// decode without further I/O. The buffer doubles whenever a declared
// length cannot fit and never shrinks during a session; a header
// declaring more than the configured maximum (MessageMaxSize) is
// rejected as misalignment before any allocation happens.
type Decoder struct {
	r         io.Reader
	logger    Logger
	strict    bool
	maxLength int // largest declared message length accepted

	buf []byte // receive buffer; len(buf) is the current capacity
	n   int    // valid bytes at the front of buf
}

// NewDecoder creates a decoder that reads response frames from r.
func NewDecoder(r io.Reader, opt ...Option) *Decoder {
	return newDecoder(r, newOptions(opt...))
}

func newDecoder(r io.Reader, opts options) *Decoder {
	return &Decoder{
		r:         r,
		logger:    opts.logger,
		strict:    opts.strict,
		maxLength: opts.maxReadLength,
		buf:       make([]byte, opts.bufferSize),
	}
}

// Run reads from the stream until the peer closes it or the consumer
// reports completion, delivering each complete frame exactly once.
// A closed stream is the normal end of a session and returns nil, as
// does a consumer stop. Transport failures and, under strict framing,
// unframeable bytes are returned as errors.
func (d *Decoder) Run(consumer Consumer) error {
	for {
		read, err := d.r.Read(d.buf[d.n:])
		if read > 0 {
			d.n += read

			done, derr := d.drain(consumer)
			if done || derr != nil {
				return derr
			}
		}

		if err == io.EOF {
			d.logger.Debug("stream closed by peer", "discarded", d.n)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "receive")
		}
	}
}

// drain extracts every complete frame currently buffered. It returns
// done when the consumer signaled completion; otherwise the buffer is
// left holding at most one partial frame and the caller reads more.
func (d *Decoder) drain(consumer Consumer) (done bool, err error) {
	for d.n > 0 {
		valid := d.buf[:d.n]

		if !isDigit(valid[0]) {
			return false, d.misaligned(fmt.Sprintf("frame starts with %q, want a digit", valid[0]))
		}

		sp := bytes.IndexByte(valid, ' ')
		if sp == -1 {
			if d.n > maxLengthDigits || !allDigits(valid) {
				return false, d.misaligned("length header never terminates")
			}
			// Unfinished length header, e.g. "12" before the rest of
			// "12 ..." arrives. Keep it and read more.
			if d.n == len(d.buf) {
				// Tiny buffer filled by the header alone.
				d.grow(len(d.buf) + 1)
			}
			return false, nil
		}
		if sp > maxLengthDigits || !allDigits(valid[:sp]) {
			return false, d.misaligned(fmt.Sprintf("bad length header %q", valid[:sp]))
		}

		length, perr := strconv.Atoi(string(valid[:sp]))
		if perr != nil {
			// Unreachable: valid[:sp] is a bounded run of digits.
			return false, errors.Wrap(perr, "parse frame length")
		}
		if length > d.maxLength {
			// A corrupt or hostile header must never size the buffer.
			return false, d.misaligned(fmt.Sprintf("declared length %d exceeds maximum %d", length, d.maxLength))
		}

		total := sp + 1 + length
		if total > len(d.buf) {
			d.grow(total)
			return false, nil
		}
		if d.n < total {
			// Frame split across reads.
			return false, nil
		}

		message := make([]byte, length)
		copy(message, d.buf[sp+1:total])
		d.logger.Debug("frame decoded", "length", length)

		if consumer.Consume(message) {
			d.n = 0
			return true, nil
		}

		// Strip the consumed frame and try to decode another one from
		// what is already buffered.
		copy(d.buf, d.buf[total:d.n])
		d.n -= total
	}

	return false, nil
}

// misaligned applies the resynchronization policy: drop the buffered
// bytes and carry on, or fail hard under strict framing.
func (d *Decoder) misaligned(reason string) error {
	if d.strict {
		return &ProtocolError{Reason: reason}
	}

	d.logger.Warn("discarding misaligned response bytes", "count", d.n, "reason", reason)
	d.n = 0
	return nil
}

// grow enlarges the buffer by doubling until need fits, preserving the
// buffered bytes. Capacity strictly increases and never shrinks back.
func (d *Decoder) grow(need int) {
	size := len(d.buf)
	for size < need {
		size *= 2
	}

	next := make([]byte, size)
	copy(next, d.buf[:d.n])
	d.buf = next
	d.logger.Debug("receive buffer grown", "capacity", size)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func allDigits(p []byte) bool {
	for _, b := range p {
		if !isDigit(b) {
			return false
		}
	}
	return true
}
