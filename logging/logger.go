// Package logging defines the structured logger used across passvault.
// The TUI owns the terminal, so output normally goes to a file.
package logging

// Logger is a structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info("record stored", "id", id)
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
