package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Logger writes an audit record for every mutating operation and every
// denied login. Records go through the structured logger, one event per
// line, each with its own event id. A nil *Logger is a no-op, so callers
// never have to branch on whether auditing is enabled.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(actor, action, resource, resourceID, status, details string) {
	if al == nil || al.logger == nil {
		return
	}

	al.logger.Info("audit",
		slog.String("event_id", uuid.NewString()),
		slog.String("actor", actor),
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.String("details", details),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogRental(actor, rentalID, details string) {
	al.LogAction(actor, "rent", "rental", rentalID, "ok", details)
}

func (al *Logger) LogReturn(actor, rentalID, details string) {
	al.LogAction(actor, "return", "rental", rentalID, "ok", details)
}

func (al *Logger) LogLoginDenied(username, reason string) {
	al.LogAction(username, "login", "session", "", "denied", reason)
}
