package core

// Logger is any service that can log messages at the usual levels.
// Implementations may inspect args for known domain types (e.g. the resolved
// profile) to enrich reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
