package scramble

// Default configuration values.
const (
	// defaultBufferSize is the initial capacity of the receive buffer.
	// The buffer doubles as needed when a response frame declares a
	// length that does not fit.
	defaultBufferSize = 1024
	// defaultMaxMessageLength is the default maximum declared length of
	// a single response message (1MB). The receive buffer never grows
	// past the largest accepted frame.
	defaultMaxMessageLength = 1024 * 1024
)

// Default endpoint used when no host or port is configured explicitly.
const (
	DefaultHost = "localhost"
	DefaultPort = "8080"
)

// options holds the configuration shared by the client, the script
// reader and the response decoder.
type options struct {
	logger Logger

	bufferSize    int // initial receive buffer capacity in bytes
	maxReadLength int // maximum declared length of a single message

	// strict upgrades stream misalignment from silent resynchronization
	// to a ProtocolError.
	strict bool
}

// Option is a function that configures client options.
type Option func(*options)

// checkOptions fills in defaults for any option left unset.
func checkOptions(opts *options) {
	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}

	if opts.maxReadLength <= 0 {
		opts.maxReadLength = defaultMaxMessageLength
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}

// newOptions applies opt on top of defaults.
func newOptions(opt ...Option) options {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	checkOptions(&opts)
	return opts
}

// BufferSizeOption returns an Option that sets the initial receive
// buffer capacity in bytes. The buffer still grows when a frame needs
// more room; a larger initial size only avoids early growth.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// MessageMaxSize returns an Option that sets the maximum declared
// message length the decoder accepts. A frame declaring more is
// treated as stream misalignment, never allocated for; this bounds
// receive buffer growth against corrupt or hostile length headers.
func MessageMaxSize(size int) Option {
	return func(o *options) {
		o.maxReadLength = size
	}
}

// StrictFramingOption returns an Option that controls how the decoder
// treats response bytes that cannot start a frame. By default they are
// discarded and reading resumes; with strict framing enabled the
// decoder returns a ProtocolError instead.
func StrictFramingOption(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// LoggerOption returns an Option that sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
