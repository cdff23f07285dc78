package scramble

import "testing"

func TestBufferSizeOption(t *testing.T) {
	var opts options
	BufferSizeOption(100)(&opts)

	if opts.bufferSize != 100 {
		t.Errorf("bufferSize = %d, want 100", opts.bufferSize)
	}
}

func TestMessageMaxSize(t *testing.T) {
	var opts options
	MessageMaxSize(4096)(&opts)

	if opts.maxReadLength != 4096 {
		t.Errorf("maxReadLength = %d, want 4096", opts.maxReadLength)
	}
}

func TestStrictFramingOption(t *testing.T) {
	var opts options
	StrictFramingOption(true)(&opts)

	if !opts.strict {
		t.Error("strict not set")
	}

	StrictFramingOption(false)(&opts)
	if opts.strict {
		t.Error("strict not cleared")
	}
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}

	var opts options
	LoggerOption(logger)(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestCheckOptions_Defaults(t *testing.T) {
	var opts options
	checkOptions(&opts)

	if opts.bufferSize != defaultBufferSize {
		t.Errorf("bufferSize = %d, want default %d", opts.bufferSize, defaultBufferSize)
	}
	if opts.maxReadLength != defaultMaxMessageLength {
		t.Errorf("maxReadLength = %d, want default %d", opts.maxReadLength, defaultMaxMessageLength)
	}
	if opts.logger == nil {
		t.Error("logger not defaulted")
	}
	if opts.strict {
		t.Error("strict framing should default to off")
	}
}

func TestCheckOptions_InvalidBufferSize(t *testing.T) {
	opts := options{bufferSize: -1}
	checkOptions(&opts)

	if opts.bufferSize != defaultBufferSize {
		t.Errorf("bufferSize = %d, want default %d", opts.bufferSize, defaultBufferSize)
	}
}

func TestNewOptions_MultipleOptions(t *testing.T) {
	logger := &mockLogger{}

	opts := newOptions(
		BufferSizeOption(64),
		StrictFramingOption(true),
		LoggerOption(logger),
	)

	if opts.bufferSize != 64 {
		t.Errorf("bufferSize = %d, want 64", opts.bufferSize)
	}
	if !opts.strict {
		t.Error("strict not set")
	}
	if opts.logger != logger {
		t.Error("logger not set")
	}
}
