package service

import (
	"github.com/google/uuid"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

// rfqTransitions is the RFQ state machine. A status missing from the map, or
// mapped to nothing, is terminal.
var rfqTransitions = map[model.RFQStatus][]model.RFQStatus{
	model.RFQStatusDraft:     {model.RFQStatusSubmitted},
	model.RFQStatusSubmitted: {model.RFQStatusResponded, model.RFQStatusRejected, model.RFQStatusExpired},
	model.RFQStatusResponded: {model.RFQStatusAccepted, model.RFQStatusRejected},
	model.RFQStatusAccepted:  nil,
	model.RFQStatusRejected:  nil,
	model.RFQStatusExpired:   nil,
}

// Statuses that can only be held by an RFQ with an engaged provider.
var providerRequired = map[model.RFQStatus]bool{
	model.RFQStatusResponded: true,
	model.RFQStatusAccepted:  true,
	model.RFQStatusRejected:  true,
}

func CanTransition(from, to model.RFQStatus) bool {
	for _, next := range rfqTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(status model.RFQStatus) bool {
	return len(rfqTransitions[status]) == 0
}

// IsOpen reports whether an RFQ in status still collects quotes.
func IsOpen(status model.RFQStatus) bool {
	return status == model.RFQStatusSubmitted || status == model.RFQStatusResponded
}

func RequiresProvider(status model.RFQStatus) bool {
	return providerRequired[status]
}

func checkStatus(status model.RFQStatus) error {
	if _, ok := rfqTransitions[status]; !ok {
		return validationError(CodeInvalidField, "status %q is not a known RFQ status", status)
	}
	return nil
}

func checkTransition(from, to model.RFQStatus) error {
	if !CanTransition(from, to) {
		return newError(ErrInvalidTransition, "", "cannot move RFQ from %s to %s", from, to)
	}
	return nil
}

func checkProvider(status model.RFQStatus, providerID *uuid.UUID) error {
	if RequiresProvider(status) && (providerID == nil || *providerID == uuid.Nil) {
		return validationError(CodeProviderRequired, "providerId is required for status %s", status)
	}
	return nil
}
