// Package order provides domain entities and business logic for marketplace
// order reconciliation. It implements the Order aggregate root (one per
// marketplace invoice) together with its Line entities and the status state
// machines that govern the fulfillment lifecycle.
//
// The package includes:
//   - Order: The aggregate root keyed by invoice id, holding header data and lines
//   - Line: One product quantity within a header, independently trackable through splits
//   - Status: The internal fulfillment state machine (Pending -> Validated -> Cancel/Returned)
//   - MarketplaceStatus: The normalized vocabulary of channel-reported statuses
//   - Channel: The originating marketplace, with per-channel schema capabilities
//   - Incoming: The normalized input contract produced by the external file parser
//
// Key business rules:
//   - At most one active header exists per invoice id; later revisions
//     supersede the previous header, which becomes inactive and Obsolete
//   - The sum of quantities across lines sharing the same source SKU is
//     conserved under partial-return splits
//   - Cancel and Returned are terminal, though a Returned header can still
//     absorb further partial return deliveries
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
