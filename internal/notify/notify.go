// Package notify delivers operation progress and outcome notifications
// over four severity channels: state (ignorable progress marker),
// inform (user-relevant progress), confirm (success/failure summary),
// and alert (error requiring attention).
package notify

// Notifier sends messages on one of four severity channels. A notifier
// never fails the operation that calls it: delivery problems are logged
// and swallowed.
type Notifier interface {
	// State sends a notification that may be ignored.
	State(message string)
	// Inform sends an informative notification.
	Inform(message string)
	// Confirm sends a confirmation/success notification.
	Confirm(message string)
	// Alert sends an error notification.
	Alert(message string)
}

// Group fans every notification out to all grouped notifiers.
type Group []Notifier

// NewGroup groups the given notifiers.
func NewGroup(notifiers ...Notifier) Group {
	return Group(notifiers)
}

// State sends a notification that may be ignored.
func (g Group) State(message string) {
	for _, n := range g {
		n.State(message)
	}
}

// Inform sends an informative notification.
func (g Group) Inform(message string) {
	for _, n := range g {
		n.Inform(message)
	}
}

// Confirm sends a confirmation/success notification.
func (g Group) Confirm(message string) {
	for _, n := range g {
		n.Confirm(message)
	}
}

// Alert sends an error notification.
func (g Group) Alert(message string) {
	for _, n := range g {
		n.Alert(message)
	}
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// State implements Notifier.
func (Discard) State(string) {}

// Inform implements Notifier.
func (Discard) Inform(string) {}

// Confirm implements Notifier.
func (Discard) Confirm(string) {}

// Alert implements Notifier.
func (Discard) Alert(string) {}
