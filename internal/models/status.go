package models

// Order status labels. Stored rows in order_status must use these values;
// anything else is rejected by the services layer.
const (
	StatusCart       = "Cart"
	StatusAwaiting   = "Awaiting"
	StatusInProgress = "In progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// statusTransitions is the legal-transition table. Completed and Cancelled
// are terminal.
var statusTransitions = map[string][]string{
	StatusCart:       {StatusAwaiting, StatusCancelled},
	StatusAwaiting:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// StatusLabels returns every known status label, in lifecycle order.
func StatusLabels() []string {
	return []string{StatusCart, StatusAwaiting, StatusInProgress, StatusCompleted, StatusCancelled}
}

// KnownStatus reports whether label is part of the status vocabulary.
func KnownStatus(label string) bool {
	_, ok := statusTransitions[label]
	return ok
}

// CanTransition reports whether an order in state from may move to state to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
