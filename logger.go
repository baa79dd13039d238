package usuarios

// Logger is the minimal structured logging surface the client writes to.
// Pairs in keysAndValues alternate key, value. The default is a no-op;
// adapters for slog, zap, etc. are one-liners on the caller's side.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
