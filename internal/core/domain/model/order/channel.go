package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Channel identifies the marketplace an order export originated from.
// Channels differ in column layout and status vocabulary; the parser hides
// most of that, but a few schema capabilities leak into reconciliation and
// are modeled here as methods.
type Channel int

const (
	// ChannelUnknown is used when the export source could not be identified.
	ChannelUnknown Channel = iota

	// ChannelShopee is the Shopee seller-center export.
	ChannelShopee

	// ChannelTokopedia is the Tokopedia seller export.
	ChannelTokopedia

	// ChannelLazada is the Lazada seller-center export.
	ChannelLazada

	// ChannelTiktok is the TikTok Shop export.
	ChannelTiktok
)

func getChannelStrings() map[Channel]string {
	return map[Channel]string{
		ChannelUnknown:   "unknown",
		ChannelShopee:    "shopee",
		ChannelTokopedia: "tokopedia",
		ChannelLazada:    "lazada",
		ChannelTiktok:    "tiktok",
	}
}

// ParseChannel maps a channel name onto the enum, case-insensitively.
// Unrecognized names map to ChannelUnknown.
func ParseChannel(s string) Channel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shopee":
		return ChannelShopee
	case "tokopedia":
		return ChannelTokopedia
	case "lazada":
		return ChannelLazada
	case "tiktok", "tiktok shop":
		return ChannelTiktok
	default:
		return ChannelUnknown
	}
}

// Validate checks that the value is one of the defined channels.
// ChannelUnknown is valid: orders from unrecognized exports are still
// reconciled, they just lose channel-specific capabilities.
func (c Channel) Validate() error {
	if _, ok := getChannelStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"channel is invalid",
			fmt.Errorf("%d is not a valid channel", c),
		)
	}
	return nil
}

// String returns the lowercase channel name used in persistence and logs.
func (c Channel) String() string {
	if str, ok := getChannelStrings()[c]; ok {
		return str
	}
	return "unknown"
}

// ReportsReturnedQuantity reports whether this channel's export schema carries
// a per-item returned-quantity column. When it does not, a return signal means
// the full line quantity came back and the engine falls back accordingly.
func (c Channel) ReportsReturnedQuantity() bool {
	switch c {
	case ChannelShopee, ChannelLazada:
		return true
	default:
		return false
	}
}
