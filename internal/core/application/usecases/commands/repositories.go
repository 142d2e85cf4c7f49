// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// StockRepoFactory provides access to the stock repository within a transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// JobRepoFactory provides access to the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// ReconcileUoW manages transactions for reconciling one incoming order.
	// Reconciliation touches orders, resolves SKUs against the catalog and
	// writes stock movements on automatic restocks, so all three repositories
	// share one transaction.
	ReconcileUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		StockRepoFactory
	}

	// ReconcileUoWFactory creates unit of work instances for reconciliation.
	// One instance per invoice keeps a poison row from rolling back its
	// neighbors.
	ReconcileUoWFactory interface {
		Create() ReconcileUoW
	}

	// StockUoW manages transactions for stock adjustment operations.
	StockUoW interface {
		TxManager
		ProductRepoFactory
		StockRepoFactory
	}

	// StockUoWFactory creates unit of work instances for stock operations.
	StockUoWFactory interface {
		Create() StockUoW
	}

	// JobUoW manages transactions for import job state changes.
	JobUoW interface {
		TxManager
		JobRepoFactory
	}

	// JobUoWFactory creates unit of work instances for job operations.
	JobUoWFactory interface {
		Create() JobUoW
	}
)
