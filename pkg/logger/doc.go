// Package logger builds slog loggers for shopkit binaries.
//
// The factory reads level and format from configuration (text for local
// development, JSON for log aggregation) and stamps every record with
// static attributes, so gateway, coordinator and cart logs stay
// distinguishable in one stream. Library packages accept a *slog.Logger
// through their options and default to discarding; a binary builds one
// logger here and hands scoped children out.
package logger
