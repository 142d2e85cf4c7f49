package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrReconcileOrderCommandIsNotConstructed = errors.New(
		"ReconcileOrderCommand must be created via NewReconcileOrderCommand constructor",
	)
	ErrInvoiceIDIsRequired  = errors.New("invoice id is required")
	ErrIncomingHasNoItems   = errors.New("incoming order has no items")
	ErrSourceFileIsRequired = errors.New("source file is required")
)

// ReconcileOrderCommand represents a request to reconcile one incoming order
// against the stored state of its invoice. Issued once per invoice row while
// an order import job runs.
type ReconcileOrderCommand struct { //nolint:recvcheck //using for validation
	incoming   order.Incoming
	sourceFile string

	guard guard.ConstructorGuard
}

// NewReconcileOrderCommand creates a command to reconcile one incoming order.
// Validates that the incoming order carries an invoice id and at least one
// item, and that the originating file is named for audit.
func NewReconcileOrderCommand(incoming order.Incoming, sourceFile string) (ReconcileOrderCommand, error) {
	cmd := ReconcileOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIncoming(incoming),
		cmd.setSourceFile(sourceFile),
	); err != nil {
		return ReconcileOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileOrderCommandIsNotConstructed if validation fails.
func (c ReconcileOrderCommand) Validate() error {
	return c.guard.Validate(ErrReconcileOrderCommandIsNotConstructed)
}

// Incoming returns the normalized incoming order.
func (c ReconcileOrderCommand) Incoming() order.Incoming {
	return c.incoming
}

// SourceFile returns the export filename the order was read from.
func (c ReconcileOrderCommand) SourceFile() string {
	return c.sourceFile
}

func (c *ReconcileOrderCommand) setIncoming(incoming order.Incoming) error {
	if incoming.InvoiceID == "" {
		return ErrInvoiceIDIsRequired
	}
	if len(incoming.Items) == 0 {
		return ErrIncomingHasNoItems
	}

	c.incoming = incoming
	return nil
}

func (c *ReconcileOrderCommand) setSourceFile(sourceFile string) error {
	if sourceFile == "" {
		return ErrSourceFileIsRequired
	}

	c.sourceFile = sourceFile
	return nil
}
