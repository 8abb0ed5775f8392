// Package logger configures the JSON slog logger and carries
// request-scoped loggers through context.Context.
package logger
