package tasks

import "github.com/nhle/taskboard/internal/model"

// transitions lists every permitted (current, requested) pair. Self
// transitions are handled in ValidateTransition and are always allowed.
var transitions = map[model.Status]map[model.Status]bool{
	model.StatusPending: {
		model.StatusInProgress: true,
		model.StatusCompleted:  true,
	},
	model.StatusInProgress: {
		model.StatusPending:   true,
		model.StatusCompleted: true,
	},
	model.StatusCompleted: {
		model.StatusPending: true,
	},
}

// CanTransition reports whether a task in status from may move to status to.
func CanTransition(from, to model.Status) bool {
	if from == to {
		return from.IsValid()
	}
	return transitions[from][to]
}

// ValidateTransition returns an InvalidTransition error naming both states
// when the move is not permitted. It never mutates anything.
func ValidateTransition(from, to model.Status) error {
	if CanTransition(from, to) {
		return nil
	}
	return invalidTransition(from, to)
}

// NextStatuses returns the statuses reachable from from, itself included,
// in workflow order.
func NextStatuses(from model.Status) []model.Status {
	var out []model.Status
	for _, st := range model.Statuses() {
		if CanTransition(from, st) {
			out = append(out, st)
		}
	}
	return out
}
