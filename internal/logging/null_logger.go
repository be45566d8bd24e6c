package logging

// NullLogger discards everything logged to it. It backs tests and any
// code path where diagnostics output is unwanted, such as serving
// project details where logging is never part of the contract.
type NullLogger struct{}

// NewNullLogger creates a NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}

func (l *NullLogger) Info(format string, args ...interface{}) {}

func (l *NullLogger) Error(format string, args ...interface{}) {}
