package scramble

import (
	"log/slog"
	"testing"
)

func TestLogger_Interface(t *testing.T) {
	// *slog.Logger must satisfy the Logger interface directly.
	var _ Logger = slog.Default()
}

func TestDefaultLogger(t *testing.T) {
	logger := defaultLogger()

	if logger == nil {
		t.Fatal("defaultLogger returned nil")
	}
	if logger != slog.Default() {
		t.Error("defaultLogger did not return slog.Default()")
	}
}

// mockLogger records calls so tests can run quietly and still assert
// that logging happened.
type mockLogger struct {
	debugCalled bool
	infoCalled  bool
	warnCalled  bool
	errorCalled bool
	lastMsg     string
	lastArgs    []any
}

func (l *mockLogger) Debug(msg string, args ...any) {
	l.debugCalled = true
	l.lastMsg = msg
	l.lastArgs = args
}

func (l *mockLogger) Info(msg string, args ...any) {
	l.infoCalled = true
	l.lastMsg = msg
	l.lastArgs = args
}

func (l *mockLogger) Warn(msg string, args ...any) {
	l.warnCalled = true
	l.lastMsg = msg
	l.lastArgs = args
}

func (l *mockLogger) Error(msg string, args ...any) {
	l.errorCalled = true
	l.lastMsg = msg
	l.lastArgs = args
}

func TestLogger_CustomImplementation(t *testing.T) {
	var logger Logger = &mockLogger{}

	mock := logger.(*mockLogger)

	logger.Debug("test debug", "key1", "value1")
	if !mock.debugCalled {
		t.Error("Debug not called")
	}
	if mock.lastMsg != "test debug" {
		t.Errorf("lastMsg = %s, want 'test debug'", mock.lastMsg)
	}

	logger.Info("test info")
	if !mock.infoCalled {
		t.Error("Info not called")
	}

	logger.Warn("test warn")
	if !mock.warnCalled {
		t.Error("Warn not called")
	}

	logger.Error("test error")
	if !mock.errorCalled {
		t.Error("Error not called")
	}
}

func TestDecoder_LogsMisalignment(t *testing.T) {
	mock := &mockLogger{}

	got := decodeAll(t, &chunkReader{chunks: [][]byte{[]byte("garbage")}}, LoggerOption(mock))
	if len(got) != 0 {
		t.Fatalf("messages = %v, want none", got)
	}
	if !mock.warnCalled {
		t.Error("discarding misaligned bytes should log a warning")
	}
}
