package notify

import "log/slog"

// Logger mirrors every notification into a structured log, so that a
// --log-file run keeps a record of the channel traffic.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a notifier that writes to the given logger.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// State implements Notifier.
func (l *Logger) State(message string) {
	l.logger.Debug(message, "channel", "state")
}

// Inform implements Notifier.
func (l *Logger) Inform(message string) {
	l.logger.Info(message, "channel", "inform")
}

// Confirm implements Notifier.
func (l *Logger) Confirm(message string) {
	l.logger.Info(message, "channel", "confirm")
}

// Alert implements Notifier.
func (l *Logger) Alert(message string) {
	l.logger.Error(message, "channel", "alert")
}
