package models

import "fmt"

// Order statuses. Cancelled is terminal.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Fulfilment is the forward status path of an order.
var Fulfilment = []string{StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered}

// TimelineStep is one status on the order tracking view.
type TimelineStep struct {
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

func stepIndex(status string) int {
	for i, s := range Fulfilment {
		if s == status {
			return i
		}
	}
	return -1
}

// Timeline lays out the fulfilment steps for status. Steps up to and
// including the current one are completed. A cancelled order shows the steps
// it reached (cancelledFrom) followed by a cancelled step.
func Timeline(status, cancelledFrom string) []TimelineStep {
	if status == StatusCancelled {
		reached := stepIndex(cancelledFrom)
		if reached < 0 {
			reached = 0
		}
		steps := make([]TimelineStep, 0, reached+2)
		for _, s := range Fulfilment[:reached+1] {
			steps = append(steps, TimelineStep{Status: s, Completed: true})
		}
		return append(steps, TimelineStep{Status: StatusCancelled, Completed: true, Current: true})
	}

	cur := stepIndex(status)
	steps := make([]TimelineStep, len(Fulfilment))
	for i, s := range Fulfilment {
		steps[i] = TimelineStep{Status: s, Completed: i <= cur, Current: i == cur}
	}
	return steps
}

// CheckTransition allows one step forward, or cancellation before shipping.
func CheckTransition(from, to string) error {
	if from == to {
		return fmt.Errorf("order is already %s", from)
	}
	if from == StatusCancelled || from == StatusDelivered {
		return fmt.Errorf("order is %s and can no longer change", from)
	}
	if to == StatusCancelled {
		if stepIndex(from) >= stepIndex(StatusShipped) {
			return fmt.Errorf("a %s order cannot be cancelled", from)
		}
		return nil
	}
	next := stepIndex(to)
	if next < 0 {
		return fmt.Errorf("unknown status %q", to)
	}
	if next != stepIndex(from)+1 {
		return fmt.Errorf("cannot move order from %s to %s", from, to)
	}
	return nil
}
