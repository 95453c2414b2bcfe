package notify

// Severity classifies a notification event for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a transient user-facing notification. Services construct events
// and hand them to a Notifier for delivery; events are never persisted.
type Event struct {
	ID             string
	Message        string
	Severity       Severity
	SubscriptionID string // set when the event concerns a single subscription
}

// Notifier delivers notification events to the user. Implementations decide
// how (Telegram message, log line); the services only decide that and when
// an event exists. This keeps the scheduling logic decoupled from any
// delivery library.
type Notifier interface {
	Notify(event Event) error
}
