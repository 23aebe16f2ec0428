// Package logging decouples the budget components from the concrete logging
// framework. Components accept a Logger in their constructors; production code
// wires a logrus-backed adapter and tests use MockLogger.
package logging

// Logger is the structured logger every component depends on.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a derived logger carrying err.
	WithError(err error) Logger
	// WithField returns a derived logger carrying one extra field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a derived logger carrying the given fields.
	WithFields(fields ...Field) Logger
}

// Field is a key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
