package service

// Domain events emitted to the notification hub. Delivery is
// fire-and-forget; the engines never wait on a subscriber.
const (
	EventRequestCreated   = "request_created"
	EventRequestValidated = "request_validated"
	EventNoteIssued       = "note_issued"
	EventStockUpdate      = "stock_update"
)

// Notifier is the narrow boundary to the external notification
// collaborator. A nil Notifier is valid and disables publishing.
type Notifier interface {
	Publish(event string, payload map[string]interface{})
}
