package signal

import "log"

// Logger is the leveled logging seam used throughout the engine for the
// non-error, recovered conditions spec.md §7 calls out (unknown node type,
// missing sub-graph metadata): these are never surfaced as Go errors, only
// logged at debug level so a host process can observe them.
//
// No third-party structured-logging library is wired in here: none of the
// example repos in this corpus settle on one dominant choice for a bare
// library (as opposed to an application with its own cmd/ entrypoint), so
// a minimal interface plus a stdlib adapter is used instead — see
// DESIGN.md for the standard-library justification.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// NoopLogger discards every message. It is the default used when a caller
// does not supply a Logger.
type NoopLogger struct{}

// Debugf implements Logger.
func (NoopLogger) Debugf(string, ...interface{}) {}

// StdLogger adapts the standard library's *log.Logger to the Logger
// interface, prefixing every line with "debug: ".
type StdLogger struct {
	L *log.Logger
}

// Debugf implements Logger.
func (s StdLogger) Debugf(format string, args ...interface{}) {
	if s.L == nil {
		return
	}
	s.L.Printf("debug: "+format, args...)
}
