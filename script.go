package scramble

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Stdin is the reserved script name selecting standard input.
const Stdin = "-"

// OpenScript opens the request script at path. The reserved name "-"
// selects standard input, in which case closing the returned source is
// a no-op.
func OpenScript(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open script")
	}
	return f, nil
}

// ScriptReader pulls action/message pairs out of a line-oriented
// request script. Each line is "ACTION MESSAGE" where the message runs
// to the end of the line and may itself contain spaces. Lines that are
// blank, start with a space, contain no space at all, or name an
// unknown action are not requests and are skipped silently.
type ScriptReader struct {
	r      *bufio.Reader
	logger Logger
}

// NewScriptReader creates a reader over a request script source.
func NewScriptReader(r io.Reader, opt ...Option) *ScriptReader {
	return newScriptReader(r, newOptions(opt...))
}

func newScriptReader(r io.Reader, opts options) *ScriptReader {
	return &ScriptReader{
		r:      bufio.NewReader(r),
		logger: opts.logger,
	}
}

// Next returns the next valid request in the script, or io.EOF once
// the source is exhausted. Read failures other than end-of-input are
// returned wrapped; scanning does not resume afterwards.
func (s *ScriptReader) Next() (Request, error) {
	for {
		line, err := s.r.ReadBytes('\n')
		if len(line) == 0 {
			if err == io.EOF {
				return Request{}, io.EOF
			}
			return Request{}, errors.Wrap(err, "read script")
		}
		if err != nil && err != io.EOF {
			return Request{}, errors.Wrap(err, "read script")
		}

		// A final line without a trailing newline is still a line.
		line = trimLine(line)
		if len(line) == 0 || line[0] == ' ' {
			continue
		}

		sp := bytes.IndexByte(line, ' ')
		if sp == -1 {
			s.logger.Debug("skipping script line without a message", "line", string(line))
			continue
		}

		action := Action(line[:sp])
		if !action.Valid() {
			s.logger.Debug("skipping unknown action", "action", string(action))
			continue
		}

		message := make([]byte, len(line)-sp-1)
		copy(message, line[sp+1:])
		return Request{Action: action, Message: message}, nil
	}
}

// trimLine strips one trailing newline, tolerating CRLF sources.
func trimLine(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
