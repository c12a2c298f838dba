package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console writes notifications to a terminal as colored blocks.
// State, inform, and confirm messages go to the output writer; alerts
// go to the error writer.
type Console struct {
	out io.Writer
	err io.Writer

	state   *channelStyle
	inform  *channelStyle
	confirm *channelStyle
	alert   *channelStyle
}

type channelStyle struct {
	block *color.Color
	text  *color.Color
}

func newChannelStyle(bg, fg color.Attribute) *channelStyle {
	return &channelStyle{
		block: color.New(bg),
		text:  color.New(fg, color.Bold),
	}
}

// NewConsole creates a console notifier writing to the given writers.
func NewConsole(out, err io.Writer) *Console {
	return &Console{
		out:     out,
		err:     err,
		state:   newChannelStyle(color.BgWhite, color.FgWhite),
		inform:  newChannelStyle(color.BgCyan, color.FgCyan),
		confirm: newChannelStyle(color.BgGreen, color.FgGreen),
		alert:   newChannelStyle(color.BgRed, color.FgRed),
	}
}

// NewConsoleForStdio creates a console notifier for stdout and stderr.
func NewConsoleForStdio() *Console {
	return NewConsole(os.Stdout, os.Stderr)
}

func (c *Console) print(w io.Writer, style *channelStyle, message string) {
	fmt.Fprintf(w, "%s%s\n", style.block.Sprint("  "), style.text.Sprintf(" %s", message))
}

// State implements Notifier.
func (c *Console) State(message string) {
	c.print(c.out, c.state, message)
}

// Inform implements Notifier.
func (c *Console) Inform(message string) {
	c.print(c.out, c.inform, message)
}

// Confirm implements Notifier.
func (c *Console) Confirm(message string) {
	c.print(c.out, c.confirm, message)
}

// Alert implements Notifier.
func (c *Console) Alert(message string) {
	c.print(c.err, c.alert, message)
}
