// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the fulfillment system. It
// implements business workflows that don't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - StockAllocator: ranks stock holdings to suggest a pick location
//   - ReconcileDecider: chooses how an incoming order reconciles against the
//     stored header for the same invoice
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
