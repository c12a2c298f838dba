package notify

import (
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// messagePlaceholder is replaced by the notification message in every
// configured argument.
const messagePlaceholder = "{message}"

// Command runs a configured command per channel, substituting the
// notification message into its arguments. Channels without their own
// command fall back to the fallback command.
type Command struct {
	state    []string
	inform   []string
	confirm  []string
	alert    []string
	fallback []string

	logger *slog.Logger

	// run is swappable for tests.
	run func(args []string) error
}

// NewCommand creates a command notifier. A fallback command is required
// when any of the four channel commands is omitted. An empty argument
// list counts as omitted: decoding "state: []" from a configuration
// file yields an empty non-nil slice, and there is nothing to execute
// in it.
func NewCommand(state, inform, confirm, alert, fallback []string, logger *slog.Logger) (*Command, error) {
	if len(fallback) == 0 {
		fallback = nil
		for _, args := range [][]string{state, inform, confirm, alert} {
			if len(args) == 0 {
				return nil, errors.New("a fallback command is required when any channel command is omitted")
			}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Command{
		state:    state,
		inform:   inform,
		confirm:  confirm,
		alert:    alert,
		fallback: fallback,
		logger:   logger,
	}
	c.run = runCommand
	return c, nil
}

func runCommand(args []string) error {
	return exec.Command(args[0], args[1:]...).Run()
}

// substituteMessage replaces the message placeholder in each argument.
func substituteMessage(args []string, message string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, messagePlaceholder, message)
	}
	return out
}

func (c *Command) call(args []string, message string) {
	if len(args) == 0 {
		args = c.fallback
	}
	resolved := substituteMessage(args, message)
	if err := c.run(resolved); err != nil {
		c.logger.Warn("notification command failed", "command", resolved[0], "error", err)
	}
}

// State implements Notifier.
func (c *Command) State(message string) {
	c.call(c.state, message)
}

// Inform implements Notifier.
func (c *Command) Inform(message string) {
	c.call(c.inform, message)
}

// Confirm implements Notifier.
func (c *Command) Confirm(message string) {
	c.call(c.confirm, message)
}

// Alert implements Notifier.
func (c *Command) Alert(message string) {
	c.call(c.alert, message)
}

// NewNotifySend creates a notifier that delivers desktop notifications
// through the notify-send utility, mapping the channels to its urgency
// levels.
func NewNotifySend(logger *slog.Logger) *Command {
	base := []string{"notify-send", "-c", "snaplink", "-u"}
	withUrgency := func(urgency string) []string {
		return append(append([]string{}, base...), urgency, messagePlaceholder)
	}

	// All four channels are set, so the constructor cannot fail.
	c, _ := NewCommand(
		withUrgency("low"),
		withUrgency("normal"),
		withUrgency("normal"),
		withUrgency("critical"),
		nil,
		logger,
	)
	return c
}
