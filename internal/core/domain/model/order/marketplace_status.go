package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// MarketplaceStatus is the channel-reported order status normalized to a
// closed vocabulary. Each marketplace export uses its own wording; the file
// parser maps those onto this enum before handing orders to the engine.
//
// MarketplaceStatus carries no internal state machine. It is what the channel
// claims about the order, stored verbatim for audit and used by the engine to
// derive cancel and return signals.
type MarketplaceStatus int

const (
	// MPUnknown is used when the channel wording could not be mapped.
	MPUnknown MarketplaceStatus = iota

	// MPNew marks a freshly placed order awaiting fulfillment.
	MPNew

	// MPShipped marks an order handed to the logistics provider.
	MPShipped

	// MPCompleted marks an order received by the buyer.
	MPCompleted

	// MPCancelled marks an order cancelled on the channel side.
	MPCancelled

	// MPReturned marks an order returned in full or in part.
	MPReturned
)

func getMarketplaceStatusStrings() map[MarketplaceStatus]string {
	return map[MarketplaceStatus]string{
		MPUnknown:   "UNKNOWN",
		MPNew:       "NEW",
		MPShipped:   "SHIPPED",
		MPCompleted: "COMPLETED",
		MPCancelled: "CANCELLED",
		MPReturned:  "RETURNED",
	}
}

// ParseMarketplaceStatus maps a normalized status word onto the enum.
// Matching is case-insensitive; anything unrecognized maps to MPUnknown
// rather than failing, since channels invent new wording without notice.
func ParseMarketplaceStatus(s string) MarketplaceStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEW", "PENDING", "UNPAID", "TO_SHIP":
		return MPNew
	case "SHIPPED", "SHIPPING", "IN_TRANSIT":
		return MPShipped
	case "COMPLETED", "DELIVERED", "DONE":
		return MPCompleted
	case "CANCELLED", "CANCELED", "CANCEL":
		return MPCancelled
	case "RETURNED", "RETURN", "REFUNDED":
		return MPReturned
	default:
		return MPUnknown
	}
}

// Validate checks that the value is one of the defined statuses.
// MPUnknown is considered valid input: the engine treats it as a plain
// status it cannot act on, not as corrupt data.
func (m MarketplaceStatus) Validate() error {
	if _, ok := getMarketplaceStatusStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"marketplace status is invalid",
			fmt.Errorf("%d is not a valid marketplace status", m),
		)
	}
	return nil
}

// String returns the normalized uppercase form used in persistence and logs.
func (m MarketplaceStatus) String() string {
	if str, ok := getMarketplaceStatusStrings()[m]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsCancel reports whether the channel signals a cancellation.
func (m MarketplaceStatus) IsCancel() bool {
	return m == MPCancelled
}

// IsReturn reports whether the channel signals a return at the header level.
func (m MarketplaceStatus) IsReturn() bool {
	return m == MPReturned
}
