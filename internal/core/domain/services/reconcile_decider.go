package services

import (
	"fulfillment/internal/core/domain/model/order"
)

// ReconcileAction is the outcome of deciding how an incoming order relates to
// the stored header for the same invoice.
type ReconcileAction int

const (
	// ActionCreateNew creates a fresh header. When an active header already
	// exists its content differs, so the caller supersedes it first and the
	// new header becomes the live revision.
	ActionCreateNew ReconcileAction = iota + 1

	// ActionUpdateCancel cancels the existing header in place.
	ActionUpdateCancel

	// ActionUpdateReturn registers returns on the existing header in place.
	ActionUpdateReturn

	// ActionUpdatePassthrough refreshes the stored marketplace status only;
	// content and internal state are already in sync.
	ActionUpdatePassthrough
)

func (a ReconcileAction) String() string {
	switch a {
	case ActionCreateNew:
		return "create_new"
	case ActionUpdateCancel:
		return "update_cancel"
	case ActionUpdateReturn:
		return "update_return"
	case ActionUpdatePassthrough:
		return "update_passthrough"
	default:
		return "unknown"
	}
}

// ReconcileDecider is a domain service that chooses the reconcile action for
// one incoming order. It also enforces the return gatekeeper: an order we
// never picked cannot come back, so return signals on unpicked orders are
// downgraded to cancellations.
type ReconcileDecider struct{}

// NewReconcileDecider creates a new ReconcileDecider instance.
func NewReconcileDecider() ReconcileDecider {
	return ReconcileDecider{}
}

// Decide picks the action for an incoming order given the stored active
// header, nil when the invoice was never seen. The signature is the incoming
// content multiset after package expansion, in the same units the stored
// header's lines use.
func (d ReconcileDecider) Decide(existing *order.Order, in order.Incoming, signature map[string]int) ReconcileAction {
	if existing == nil {
		return ActionCreateNew
	}

	if !existing.HasSameContent(signature) {
		return ActionCreateNew
	}

	// A cancelled header cannot be updated in place, even with identical
	// content: re-ingesting the invoice revives it as a fresh revision.
	// Obsolete headers never reach here, the lookup only returns active ones.
	if existing.Status() == order.StatusCancel {
		return ActionCreateNew
	}

	if in.Status.IsCancel() {
		return ActionUpdateCancel
	}

	if in.IsReturnSignal() {
		if d.returnAllowed(existing) {
			return ActionUpdateReturn
		}
		return ActionUpdateCancel
	}

	return ActionUpdatePassthrough
}

// InitialStatus picks the birth status for a freshly created header. A
// cancelled or returned order that was never in our system gets born
// Cancel: nothing was picked, so there is nothing to return.
func (d ReconcileDecider) InitialStatus(in order.Incoming) order.Status {
	if in.Status.IsCancel() || in.IsReturnSignal() {
		return order.StatusCancel
	}
	return order.StatusPending
}

// returnAllowed applies the gatekeeper: only orders whose stock actually
// left the warehouse can receive returns. Pending headers were never picked.
func (d ReconcileDecider) returnAllowed(existing *order.Order) bool {
	switch existing.Status() {
	case order.StatusValidated, order.StatusReturned:
		return true
	default:
		return false
	}
}
