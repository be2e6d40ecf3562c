package port

// Logger is the key-value logging interface the application layer depends
// on. Implementations live in internal/pkg/logger.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
