// Package logger provides the structured logging interface used across the
// interpals client.
//
// It wraps zerolog and adds:
//   - a small Logger interface so components can take a nop or test logger
//   - field maps for request and handshake tracing
//   - console output on stderr (stdout is reserved for command output)
//   - optional file output
//
// Basic usage:
//
//	err := logger.Initialize(&config.LoggingConfig{Level: "debug"})
//
//	logger.WithField("username", "someuser").Info("session stored")
//	logger.GetLogger().DebugWithFields("request completed", map[string]interface{}{
//	    "status":   302,
//	    "duration": time.Since(start),
//	})
package logger
